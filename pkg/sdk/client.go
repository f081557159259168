package assetdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	dombatch "github.com/kailas-cloud/assetdex/internal/domain/batch"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/querylang"
	"github.com/kailas-cloud/assetdex/internal/storage"
	"github.com/kailas-cloud/assetdex/internal/usecase/assetquery"
	batchuc "github.com/kailas-cloud/assetdex/internal/usecase/batch"
	"github.com/kailas-cloud/assetdex/internal/usecase/enrich"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
	"github.com/kailas-cloud/assetdex/internal/usecase/ingest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type queryUseCase interface {
	Query(ctx context.Context, scope query.Scope, req query.Request) (query.Page[asset.Enriched], error)
	FindByID(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error)
	FindByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error)
	DefaultPageSizeGraph() int
}

type ingestUseCase interface {
	Upsert(ctx context.Context, appID, id uuid.UUID, d asset.Draft) (asset.Asset, bool, error)
}

type batchUseCase interface {
	Upsert(ctx context.Context, appID uuid.UUID, items []batchuc.Item) []dombatch.Result
}

// Client is the assetdex SDK entry point.
type Client struct {
	backend   *storage.Backend
	querySvc  queryUseCase
	ingestSvc ingestUseCase
	batchSvc  batchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New opens the configured database and wires the catalog services.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readiness: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	switch {
	case cfg.driver == "":
		return nil, errors.New("assetdex: database required (use WithRedis or WithSQLite)")
	case cfg.driver == "redis" && (len(cfg.addrs) == 0 || cfg.addrs[0] == ""):
		return nil, errors.New("assetdex: redis address required")
	case cfg.driver == "sqlite" && cfg.sqlitePath == "":
		return nil, errors.New("assetdex: sqlite path required")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	be, err := storage.Open(ctx, storage.Config{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		SQLitePath:       cfg.sqlitePath,
		ReadinessTimeout: cfg.readiness,
	})
	if err != nil {
		return nil, fmt.Errorf("assetdex: %w", err)
	}

	parser, err := querylang.New()
	if err != nil {
		be.Close()
		return nil, fmt.Errorf("assetdex: query parser: %w", err)
	}

	return wireClient(be, parser, cfg, obs), nil
}

func wireClient(be *storage.Backend, parser assetquery.Parser, cfg *clientConfig, obs *observer) *Client {
	enricher := enrich.New(be.Tags, cfg.baseURL)
	querySvc := assetquery.New(be.Assets, be.Tags, parser, enricher, assetquery.Options{
		DefaultPageSize:      cfg.defaultPageSize,
		MaxResults:           cfg.maxResults,
		DefaultPageSizeGraph: cfg.defaultPageSizeGraph,
	})

	ingestSvc := ingest.New(be.Assets, be.Tags)

	return &Client{
		backend:   be,
		querySvc:  querySvc,
		ingestSvc: ingestSvc,
		batchSvc:  batchuc.New(ingestSvc),
		healthSvc: healthuc.New(be.Pinger, be.Index),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	c.backend.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.backend.Pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Get returns one asset by id. Missing assets yield ErrAssetNotFound.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (_ Asset, err error) {
	start := time.Now()
	defer func() { c.obs.observe("asset.get", start, err) }()

	e, ok, err := c.querySvc.FindByID(ctx, id)
	if err != nil {
		return Asset{}, fmt.Errorf("get asset: %w", err)
	}
	if !ok {
		return Asset{}, fmt.Errorf("get asset %s: %w", id, ErrAssetNotFound)
	}
	return fromEnriched(&e), nil
}

// Assets returns the asset service of one app.
func (c *Client) Assets(appID uuid.UUID) *AssetService {
	return &AssetService{
		appID:     appID,
		querySvc:  c.querySvc,
		ingestSvc: c.ingestSvc,
		batchSvc:  c.batchSvc,
		obs:       c.obs,
	}
}
