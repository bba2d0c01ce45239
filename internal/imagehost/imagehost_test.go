package imagehost

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records calls in order so tests can assert delete-before-upload.
type fakeClient struct {
	calls      []string
	uploadErr  error
	destroyErr error
	nextID     int
}

func (f *fakeClient) Upload(_ context.Context, _ []byte, folder, transformation string) (Asset, error) {
	f.calls = append(f.calls, "upload:"+folder+":"+transformation)
	if f.uploadErr != nil {
		return Asset{}, f.uploadErr
	}
	f.nextID++
	return Asset{
		URL: fmt.Sprintf("https://cdn.example/%s/%d.png", folder, f.nextID),
		ID:  fmt.Sprintf("%s/%d", folder, f.nextID),
	}, nil
}

func (f *fakeClient) Destroy(_ context.Context, assetID string) error {
	f.calls = append(f.calls, "destroy:"+assetID)
	return f.destroyErr
}

func TestReplaceDeletesOldAssetFirst(t *testing.T) {
	fake := &fakeClient{}

	asset, err := Replace(context.Background(), fake, "old-id", []byte("img"), FolderProjects, ProjectTransformation)
	require.NoError(t, err)
	assert.NotEmpty(t, asset.URL)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "destroy:old-id", fake.calls[0])
	assert.Equal(t, "upload:"+FolderProjects+":"+ProjectTransformation, fake.calls[1])
}

func TestReplaceWithoutOldAssetSkipsDelete(t *testing.T) {
	fake := &fakeClient{}

	_, err := Replace(context.Background(), fake, "", []byte("img"), FolderProfile, "")
	require.NoError(t, err)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "upload:"+FolderProfile+":", fake.calls[0])
}

func TestReplaceDeleteFailureDoesNotAbortUpload(t *testing.T) {
	fake := &fakeClient{destroyErr: errors.New("host unavailable")}

	asset, err := Replace(context.Background(), fake, "old-id", []byte("img"), FolderProjects, ProjectTransformation)
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)
	require.Len(t, fake.calls, 2)
}

func TestReplaceUploadFailure(t *testing.T) {
	fake := &fakeClient{uploadErr: ErrUploadFailed}

	_, err := Replace(context.Background(), fake, "", []byte("img"), FolderProjects, "")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestDestroyQuietlySwallowsErrors(t *testing.T) {
	fake := &fakeClient{destroyErr: errors.New("host unavailable")}

	DestroyQuietly(context.Background(), fake, "some-id")
	require.Len(t, fake.calls, 1)

	// Empty asset ID is a no-op.
	DestroyQuietly(context.Background(), fake, "")
	require.Len(t, fake.calls, 1)
}
