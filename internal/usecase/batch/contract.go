package batch

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// AssetUpserter creates or replaces a single asset.
type AssetUpserter interface {
	Upsert(ctx context.Context, appID, id uuid.UUID, d asset.Draft) (asset.Asset, bool, error)
}
