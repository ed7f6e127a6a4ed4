package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStore implements ports.EventStore on the storage account and
// container provisioned by the deployment template and named by the
// STORAGE_ACCOUNT / STORAGE_CONTAINER app settings.
type BlobStore struct {
	client    *azblob.Client
	container string
}

// NewBlobStore builds a store for the given account and container,
// authenticating with the app's identity. The Storage Blob Data
// Contributor assignment in the template is what makes this work.
func NewBlobStore(account, container string, cred azcore.TokenCredential) (*BlobStore, error) {
	if account == "" || container == "" {
		return nil, fmt.Errorf("storage account and container must be configured")
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &BlobStore{client: client, container: container}, nil
}

// Put writes payload under name, overwriting any previous blob.
func (s *BlobStore) Put(ctx context.Context, name string, payload []byte) error {
	if _, err := s.client.UploadBuffer(ctx, s.container, name, payload, nil); err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", name, err)
	}
	return nil
}
