package enrich

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/tag"
)

// TagResolver loads the tag name<->id mapping of an app.
type TagResolver interface {
	Tags(ctx context.Context, appID uuid.UUID) (tag.Set, error)
}
