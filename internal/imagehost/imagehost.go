// Package imagehost integrates with the external image hosting service. It
// uploads in-memory file buffers and tracks the returned asset references so
// replaced or deleted records can release their remote assets.
package imagehost

import (
	"context"
	"errors"
	"log/slog"
)

// Logical destination folders on the image host.
const (
	FolderProjects = "portfolio/projects"
	FolderProfile  = "portfolio/profile"
	FolderResume   = "portfolio/resume"
)

// ProjectTransformation bounds project images server-side: limit to 800x600
// with automatic quality. Profile pictures and resumes upload untransformed.
const ProjectTransformation = "c_limit,w_800,h_600/q_auto"

// ErrUploadFailed indicates the external host rejected or failed an upload.
var ErrUploadFailed = errors.New("image upload failed")

// Asset is a remote asset reference: its public URL and the host-side
// identifier needed to delete it later.
type Asset struct {
	URL string
	ID  string
}

// Client uploads and deletes assets on the external image host.
type Client interface {
	// Upload sends a fully buffered file to the host under the given folder.
	// transformation is an optional host-side transformation policy.
	Upload(ctx context.Context, data []byte, folder, transformation string) (Asset, error)
	// Destroy deletes an asset by its host-side identifier.
	Destroy(ctx context.Context, assetID string) error
}

// Replace uploads a new asset, first issuing a best-effort delete for the old
// one. A failed delete is logged and never aborts the upload; the orphaned
// remote asset is an accepted risk.
func Replace(ctx context.Context, c Client, oldAssetID string, data []byte, folder, transformation string) (Asset, error) {
	if oldAssetID != "" {
		if err := c.Destroy(ctx, oldAssetID); err != nil {
			slog.Warn("failed to delete previous image asset", "asset_id", oldAssetID, "error", err)
		}
	}
	return c.Upload(ctx, data, folder, transformation)
}

// DestroyQuietly issues a best-effort delete. Failure is logged, not
// returned: record deletion must not block on the external host.
func DestroyQuietly(ctx context.Context, c Client, assetID string) {
	if assetID == "" {
		return
	}
	if err := c.Destroy(ctx, assetID); err != nil {
		slog.Warn("failed to delete image asset", "asset_id", assetID, "error", err)
	}
}
