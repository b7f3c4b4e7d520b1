package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kopimi-kafe/backend/internal/blobstore"
	"github.com/kopimi-kafe/backend/internal/domain"
)

// Backend reads and writes the whole snapshot in one call. Fetch returns
// blobstore.ErrNotFound when nothing has been persisted yet.
type Backend interface {
	Fetch(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// BlobBackend keeps the snapshot as one JSON document under a single key.
type BlobBackend struct {
	blob blobstore.Store
	key  string
}

func NewBlobBackend(blob blobstore.Store, key string) *BlobBackend {
	return &BlobBackend{blob: blob, key: key}
}

func (b *BlobBackend) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	data, err := b.blob.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (b *BlobBackend) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return b.blob.Set(ctx, b.key, data)
}
