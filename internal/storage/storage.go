// Package storage opens the configured database driver and hands out the
// repositories built on it.
package storage

import (
	"context"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/assetdex/internal/db/redis"
	assetrepo "github.com/kailas-cloud/assetdex/internal/repository/asset"
	sqliterepo "github.com/kailas-cloud/assetdex/internal/repository/sqlite"
	tagrepo "github.com/kailas-cloud/assetdex/internal/repository/tag"
	"github.com/kailas-cloud/assetdex/internal/usecase/assetquery"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
	"github.com/kailas-cloud/assetdex/internal/usecase/ingest"
)

// Driver names.
const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Config selects and parameterises a driver.
type Config struct {
	Driver           string
	Addrs            []string
	Password         string
	SQLitePath       string
	ReadinessTimeout time.Duration
}

// AssetRepository is what both drivers provide for assets.
type AssetRepository interface {
	assetquery.Repository
	ingest.Repository
}

// TagRepository is what both drivers provide for tags.
type TagRepository interface {
	assetquery.TagResolver
	ingest.TagStore
}

// Backend bundles the repositories of one open driver.
type Backend struct {
	Assets AssetRepository
	Tags   TagRepository
	Pinger healthuc.DBPinger
	Index  healthuc.IndexChecker // nil when the driver has no search index

	close func()
}

// Close releases the underlying connection.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// Open connects to the configured driver. For redis it waits for the server
// and makes sure the asset index exists.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	switch cfg.Driver {
	case DriverRedis:
		return openRedis(ctx, cfg)
	case DriverSQLite:
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func openRedis(ctx context.Context, cfg Config) (*Backend, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	timeout := cfg.ReadinessTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	assets := assetrepo.New(store)
	if err := assets.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure asset index: %w", err)
	}

	return &Backend{
		Assets: assets,
		Tags:   tagrepo.New(store),
		Pinger: store,
		Index:  assets,
		close:  store.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg Config) (*Backend, error) {
	store, err := sqliterepo.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Backend{
		Assets: sqliterepo.NewAssetRepo(store),
		Tags:   sqliterepo.NewTagRepo(store),
		Pinger: store,
		close:  func() { _ = store.Close() },
	}, nil
}
