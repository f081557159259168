package asset

import (
	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "asset:"
	indexName = domain.KeyPrefix + "assets:idx"
)

func assetKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}
