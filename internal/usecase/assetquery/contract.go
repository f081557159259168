package assetquery

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/tag"
)

// Parser turns query text into a structured query. Errors are
// *querylang.SyntaxError or match querylang.ErrNotSupported.
type Parser interface {
	Parse(text string) (query.Query, error)
}

// TagResolver loads the tag name<->id mapping of an app.
type TagResolver interface {
	Tags(ctx context.Context, appID uuid.UUID) (tag.Set, error)
}

// Repository reads assets from storage.
type Repository interface {
	// Get returns domain.ErrAssetNotFound when the asset does not exist.
	Get(ctx context.Context, id uuid.UUID) (asset.Asset, error)
	QueryByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Asset, error)
	// QueryByIDs returns the subset of ids that exist, in any order.
	QueryByIDs(ctx context.Context, appID uuid.UUID, ids []uuid.UUID) (query.Page[asset.Asset], error)
	Query(ctx context.Context, appID uuid.UUID, q query.Query) (query.Page[asset.Asset], error)
}

// Enricher decorates stored assets with derived fields, preserving order.
type Enricher interface {
	Enrich(ctx context.Context, a asset.Asset) (asset.Enriched, error)
	EnrichMany(ctx context.Context, as []asset.Asset) ([]asset.Enriched, error)
}

// Querier is the read surface consumed by transports. Service and
// Instrumented implement it.
type Querier interface {
	Query(ctx context.Context, scope query.Scope, req query.Request) (query.Page[asset.Enriched], error)
	FindByID(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error)
	FindByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error)
	DefaultPageSizeGraph() int
}
