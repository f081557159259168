package assetquery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

// Query paths used as metric labels.
const (
	PathIDs  = "ids"
	PathText = "text"
	PathID   = "id"
	PathHash = "hash"
)

// Instrumented wraps a Querier with logging and Prometheus metrics.
// The wrapped service stays free of observability concerns.
type Instrumented struct {
	inner  Querier
	logger *zap.Logger
}

// NewInstrumented wraps inner. A request-scoped logger in ctx takes
// precedence over the given one.
func NewInstrumented(inner Querier, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, logger: logger}
}

// Query delegates and records the outcome.
func (i *Instrumented) Query(
	ctx context.Context, scope query.Scope, req query.Request,
) (query.Page[asset.Enriched], error) {
	path := PathText
	if req.Kind() == query.KindIDs {
		path = PathIDs
	}

	start := time.Now()
	page, err := i.inner.Query(ctx, scope, req)
	duration := time.Since(start)

	i.observe(path, duration, err)
	log := i.log(ctx).With(
		zap.String("path", path),
		zap.String("app_id", scope.AppID.String()),
		zap.Duration("duration", duration),
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		log.Debug("Asset query rejected", zap.String("query", req.Text()), zap.Error(err))
		return page, err
	case err != nil:
		log.Error("Asset query failed", zap.Error(err))
		return page, err
	}

	metrics.QueryResults.Observe(float64(len(page.Items)))
	log.Debug("Asset query completed",
		zap.Int("requested_ids", len(req.IDs())),
		zap.Int("items", len(page.Items)),
		zap.Int64("total", page.Total),
	)
	return page, nil
}

// FindByID delegates and records the outcome.
func (i *Instrumented) FindByID(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error) {
	start := time.Now()
	a, ok, err := i.inner.FindByID(ctx, id)
	duration := time.Since(start)

	i.observe(PathID, duration, err)
	if err != nil {
		i.log(ctx).Error("Asset lookup failed",
			zap.String("asset_id", id.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	return a, ok, err
}

// FindByHash delegates and records the outcome.
func (i *Instrumented) FindByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error) {
	start := time.Now()
	found, err := i.inner.FindByHash(ctx, appID, hash)
	duration := time.Since(start)

	i.observe(PathHash, duration, err)
	if err != nil && !errors.Is(err, domain.ErrHashRequired) {
		i.log(ctx).Error("Asset hash lookup failed",
			zap.String("app_id", appID.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	return found, err
}

// DefaultPageSizeGraph delegates.
func (i *Instrumented) DefaultPageSizeGraph() int {
	return i.inner.DefaultPageSizeGraph()
}

func (i *Instrumented) observe(path string, d time.Duration, err error) {
	metrics.QueryDuration.WithLabelValues(path).Observe(d.Seconds())
	metrics.QueriesTotal.WithLabelValues(path, status(err)).Inc()
}

func (i *Instrumented) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, i.logger)
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrHashRequired):
		return "invalid"
	default:
		return "error"
	}
}
