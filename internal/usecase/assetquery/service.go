package assetquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
)

// Service answers asset queries. It is stateless after construction and safe
// for concurrent use.
type Service struct {
	repo     Repository
	tags     TagResolver
	parser   Parser
	enricher Enricher
	opts     Options
}

// New creates a query service.
func New(repo Repository, tags TagResolver, parser Parser, enricher Enricher, opts Options) *Service {
	return &Service{
		repo:     repo,
		tags:     tags,
		parser:   parser,
		enricher: enricher,
		opts:     opts.normalized(),
	}
}

// Query runs an id-list or textual request and returns one enriched page.
func (s *Service) Query(
	ctx context.Context, scope query.Scope, req query.Request,
) (query.Page[asset.Enriched], error) {
	switch req.Kind() {
	case query.KindIDs:
		return s.queryByIDs(ctx, scope, req.IDs())
	case query.KindText:
		return s.queryByText(ctx, scope, req.Text())
	default:
		return query.Page[asset.Enriched]{}, fmt.Errorf("unknown request kind %d", req.Kind())
	}
}

func (s *Service) queryByIDs(
	ctx context.Context, scope query.Scope, ids []uuid.UUID,
) (query.Page[asset.Enriched], error) {
	if len(ids) == 0 {
		return query.Empty[asset.Enriched](), nil
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	page, err := s.repo.QueryByIDs(ctx, scope.AppID, unique)
	if err != nil {
		return query.Page[asset.Enriched]{}, fmt.Errorf("query by ids: %w", err)
	}

	byID := make(map[uuid.UUID]asset.Asset, len(page.Items))
	for _, a := range page.Items {
		byID[a.ID()] = a
	}
	ordered := make([]asset.Asset, 0, len(byID))
	for _, id := range unique {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}

	return s.enrichPage(ctx, page.Total, ordered)
}

func (s *Service) queryByText(
	ctx context.Context, scope query.Scope, text string,
) (query.Page[asset.Enriched], error) {
	q, err := s.Normalize(ctx, scope, text)
	if err != nil {
		return query.Page[asset.Enriched]{}, err
	}

	page, err := s.repo.Query(ctx, scope.AppID, q)
	if err != nil {
		return query.Page[asset.Enriched]{}, fmt.Errorf("query assets: %w", err)
	}

	return s.enrichPage(ctx, page.Total, page.Items)
}

func (s *Service) enrichPage(
	ctx context.Context, total int64, items []asset.Asset,
) (query.Page[asset.Enriched], error) {
	enriched, err := s.enricher.EnrichMany(ctx, items)
	if err != nil {
		return query.Page[asset.Enriched]{}, fmt.Errorf("enrich assets: %w", err)
	}
	return query.NewPage(total, enriched), nil
}

// FindByID returns one enriched asset; ok is false when it does not exist.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error) {
	a, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrAssetNotFound) {
		return asset.Enriched{}, false, nil
	}
	if err != nil {
		return asset.Enriched{}, false, fmt.Errorf("get asset: %w", err)
	}

	e, err := s.enricher.Enrich(ctx, a)
	if err != nil {
		return asset.Enriched{}, false, fmt.Errorf("enrich asset: %w", err)
	}
	return e, true, nil
}

// FindByHash returns every asset of an app with the given content hash, in
// repository order.
func (s *Service) FindByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error) {
	if hash == "" {
		return nil, domain.ErrHashRequired
	}

	found, err := s.repo.QueryByHash(ctx, appID, hash)
	if err != nil {
		return nil, fmt.Errorf("query by hash: %w", err)
	}

	enriched, err := s.enricher.EnrichMany(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("enrich assets: %w", err)
	}
	return enriched, nil
}

// DefaultPageSizeGraph returns the default take of the compact listing.
func (s *Service) DefaultPageSizeGraph() int {
	return s.opts.DefaultPageSizeGraph
}
