package assetquery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/logger"
	"github.com/kailas-cloud/assetdex/internal/metrics"
)

type mockQuerier struct {
	queryFn      func(ctx context.Context, scope query.Scope, req query.Request) (query.Page[asset.Enriched], error)
	findByIDFn   func(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error)
	findByHashFn func(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error)
}

func (m *mockQuerier) Query(
	ctx context.Context, scope query.Scope, req query.Request,
) (query.Page[asset.Enriched], error) {
	return m.queryFn(ctx, scope, req)
}

func (m *mockQuerier) FindByID(ctx context.Context, id uuid.UUID) (asset.Enriched, bool, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockQuerier) FindByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Enriched, error) {
	return m.findByHashFn(ctx, appID, hash)
}

func (m *mockQuerier) DefaultPageSizeGraph() int { return 11 }

func TestInstrumented_QueryCountsByPathAndStatus(t *testing.T) {
	inner := &mockQuerier{
		queryFn: func(_ context.Context, _ query.Scope, req query.Request) (query.Page[asset.Enriched], error) {
			if req.Kind() == query.KindText && req.Text() == "bad" {
				return query.Page[asset.Enriched]{}, domain.NewQueryValidation("Failed to parse query: x", nil)
			}
			return query.NewPage(1, []asset.Enriched{{}}), nil
		},
	}
	inst := NewInstrumented(inner, zap.NewNop())

	okBefore := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(PathIDs, "ok"))
	invalidBefore := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(PathText, "invalid"))

	if _, err := inst.Query(context.Background(), scope(), query.ByIDs(uuid.New())); err != nil {
		t.Fatalf("Query(ids): %v", err)
	}
	if _, err := inst.Query(context.Background(), scope(), query.ByText("bad")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Query(bad) error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(PathIDs, "ok")); got != okBefore+1 {
		t.Errorf("ids/ok = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(metrics.QueriesTotal.WithLabelValues(PathText, "invalid")); got != invalidBefore+1 {
		t.Errorf("text/invalid = %v, want %v", got, invalidBefore+1)
	}
}

func TestInstrumented_LogsFailuresWithContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	boom := errors.New("storage down")
	inner := &mockQuerier{
		queryFn: func(context.Context, query.Scope, query.Request) (query.Page[asset.Enriched], error) {
			return query.Page[asset.Enriched]{}, boom
		},
	}
	inst := NewInstrumented(inner, zap.NewNop())
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	_, err := inst.Query(ctx, scope(), query.ByText(""))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}

	entries := logs.FilterMessage("Asset query failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel {
		t.Errorf("level = %s, want error", entries[0].Level)
	}
	if got := entries[0].ContextMap()["path"]; got != PathText {
		t.Errorf("path = %v, want %s", got, PathText)
	}
}

func TestInstrumented_FindByHashRequiredIsNotLoggedAsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inner := &mockQuerier{
		findByHashFn: func(context.Context, uuid.UUID, string) ([]asset.Enriched, error) {
			return nil, domain.ErrHashRequired
		},
	}
	inst := NewInstrumented(inner, zap.New(core))

	if _, err := inst.FindByHash(context.Background(), appID, ""); !errors.Is(err, domain.ErrHashRequired) {
		t.Fatalf("error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log entries, got %d", logs.Len())
	}
}

func TestInstrumented_FindByIDDelegates(t *testing.T) {
	id := uuid.New()
	inner := &mockQuerier{
		findByIDFn: func(_ context.Context, got uuid.UUID) (asset.Enriched, bool, error) {
			return asset.Enriched{}, got == id, nil
		},
	}
	inst := NewInstrumented(inner, zap.NewNop())

	if _, ok, err := inst.FindByID(context.Background(), id); err != nil || !ok {
		t.Errorf("FindByID = ok %v, err %v", ok, err)
	}
	if got := inst.DefaultPageSizeGraph(); got != 11 {
		t.Errorf("DefaultPageSizeGraph = %d, want 11", got)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.NewQueryValidation("x", nil), "invalid"},
		{domain.ErrHashRequired, "invalid"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := status(tt.err); got != tt.want {
			t.Errorf("status(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
