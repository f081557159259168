package assetdex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	dombatch "github.com/kailas-cloud/assetdex/internal/domain/batch"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/querylang"
	batchuc "github.com/kailas-cloud/assetdex/internal/usecase/batch"
)

// AssetService reads and writes the assets of a single app.
type AssetService struct {
	appID     uuid.UUID
	querySvc  queryUseCase
	ingestSvc ingestUseCase
	batchSvc  batchUseCase
	obs       *observer
}

// Query runs a textual query. Rejected queries match ErrValidation and carry
// a *QueryValidationError.
func (s *AssetService) Query(ctx context.Context, text string) (_ Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("asset.query", start, err) }()

	return s.run(ctx, query.ByText(text))
}

// QueryCompact is Query with the compact listing's default page size applied
// when the text sets no $top.
func (s *AssetService) QueryCompact(ctx context.Context, text string) (_ Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("asset.query_compact", start, err) }()

	return s.run(ctx, query.ByText(withTop(text, s.querySvc.DefaultPageSizeGraph())))
}

// QueryIDs returns the existing assets among ids, in the given order.
func (s *AssetService) QueryIDs(ctx context.Context, ids ...uuid.UUID) (_ Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("asset.query_ids", start, err) }()

	return s.run(ctx, query.ByIDs(ids...))
}

func (s *AssetService) run(ctx context.Context, req query.Request) (Page, error) {
	page, err := s.querySvc.Query(ctx, query.Scope{AppID: s.appID}, req)
	if err != nil {
		return Page{}, fmt.Errorf("query assets: %w", err)
	}
	return Page{Total: page.Total, Items: fromEnrichedList(page.Items)}, nil
}

// FindByHash returns every asset of the app with the given content hash.
func (s *AssetService) FindByHash(ctx context.Context, hash string) (_ []Asset, err error) {
	start := time.Now()
	defer func() { s.obs.observe("asset.find_by_hash", start, err) }()

	found, err := s.querySvc.FindByHash(ctx, s.appID, hash)
	if err != nil {
		return nil, fmt.Errorf("find by hash: %w", err)
	}
	return fromEnrichedList(found), nil
}

// Upsert creates or replaces an asset. Returns true if created.
func (s *AssetService) Upsert(ctx context.Context, id uuid.UUID, in AssetInput) (_ Asset, created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("asset.upsert", start, err) }()

	if _, created, err = s.ingestSvc.Upsert(ctx, s.appID, id, in.toDraft()); err != nil {
		return Asset{}, false, fmt.Errorf("upsert: %w", err)
	}

	e, ok, err := s.querySvc.FindByID(ctx, id)
	if err != nil {
		return Asset{}, false, fmt.Errorf("upsert: reload: %w", err)
	}
	if !ok {
		return Asset{}, false, fmt.Errorf("upsert: reload %s: %w", id, ErrAssetNotFound)
	}
	return fromEnriched(&e), created, nil
}

// UpsertMany creates or replaces several assets. Items are processed in order;
// one failing item does not stop the others.
func (s *AssetService) UpsertMany(ctx context.Context, items []BatchItem) []BatchResult {
	start := time.Now()

	in := make([]batchuc.Item, len(items))
	for i := range items {
		in[i] = batchuc.Item{ID: items[i].ID, Draft: items[i].Input.toDraft()}
	}

	results := s.batchSvc.Upsert(ctx, s.appID, in)
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{ID: r.ID(), Created: r.Created(), Err: r.Err()}
	}
	var err error
	if _, failed := dombatch.Count(results); failed > 0 {
		err = fmt.Errorf("%d of %d items failed", failed, len(results))
	}
	s.obs.observe("asset.upsert_many", start, err)
	return out
}

// withTop appends $top unless the text already sets it or does not parse.
func withTop(text string, top int) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(text), "?")
	values, err := url.ParseQuery(trimmed)
	if err != nil || values.Has(querylang.OptTop) {
		return text
	}
	opt := querylang.OptTop + "=" + strconv.Itoa(top)
	if trimmed == "" {
		return opt
	}
	return trimmed + "&" + opt
}
