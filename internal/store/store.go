// Package store defines blob persistence for the setup ledger document.
package store

import "context"

// BlobStore persists opaque documents by fixed key. The ledger is read in
// full and written back in full; implementations do not interpret the blob.
type BlobStore interface {
	// Load returns the stored blob, or (nil, nil) when the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores the blob, replacing any previous value.
	Save(ctx context.Context, key string, blob []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases underlying resources.
	Close() error
}
