package ingest

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// Repository persists assets.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (asset.Asset, error)
	Upsert(ctx context.Context, a asset.Asset) error
}

// TagStore resolves tag names to ids, creating missing tags.
type TagStore interface {
	EnsureTags(ctx context.Context, appID uuid.UUID, names []string) ([]string, error)
}
