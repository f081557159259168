package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	dombatch "github.com/kailas-cloud/assetdex/internal/domain/batch"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Item is one asset of a batch upsert.
type Item struct {
	ID    uuid.UUID
	Draft asset.Draft
}

// Service handles batch asset writes with per-item error reporting.
type Service struct {
	assets       AssetUpserter
	maxBatchSize int
}

// New creates a batch service.
func New(assets AssetUpserter) *Service {
	return &Service{assets: assets, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Upsert creates or replaces assets of one app, one by one. Results follow the
// order of items. A repeated id fails every occurrence after the first. Once
// ctx is done the remaining items fail with its error.
func (s *Service) Upsert(ctx context.Context, appID uuid.UUID, items []Item) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	if len(items) > s.maxBatchSize {
		for i, item := range items {
			results[i] = dombatch.NewError(
				item.ID,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidAsset),
			)
		}
		return results
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(items); j++ {
				results[j] = dombatch.NewError(items[j].ID, fmt.Errorf("batch aborted: %w", err))
			}
			return results
		}

		if seen[item.ID] {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("duplicate id in batch: %w", domain.ErrInvalidAsset))
			continue
		}
		seen[item.ID] = true

		_, created, err := s.assets.Upsert(ctx, appID, item.ID, item.Draft)
		if err != nil {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("upsert: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(item.ID, created)
	}

	return results
}
