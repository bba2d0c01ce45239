package imagehost

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryClient implements Client against the Cloudinary upload API.
type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a Cloudinary-backed client. Credentials come from
// configuration; there are no fallback values.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configuring cloudinary: %w", err)
	}
	return &CloudinaryClient{cld: cld}, nil
}

// Upload streams a buffered file to Cloudinary.
func (c *CloudinaryClient) Upload(ctx context.Context, data []byte, folder, transformation string) (Asset, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		Transformation: transformation,
	}

	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if result.Error.Message != "" {
		return Asset{}, fmt.Errorf("%w: %s", ErrUploadFailed, result.Error.Message)
	}

	return Asset{URL: result.SecureURL, ID: result.PublicID}, nil
}

// Destroy deletes an asset by public ID.
func (c *CloudinaryClient) Destroy(ctx context.Context, assetID string) error {
	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: assetID})
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", assetID, err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("deleting asset %s: %s", assetID, result.Result)
	}
	return nil
}
