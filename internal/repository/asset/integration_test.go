//go:build integration

package asset_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kailas-cloud/assetdex/internal/db"
	dbRedis "github.com/kailas-cloud/assetdex/internal/db/redis"
	"github.com/kailas-cloud/assetdex/internal/domain"
	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/querylang"
	assetrepo "github.com/kailas-cloud/assetdex/internal/repository/asset"
	tagrepo "github.com/kailas-cloud/assetdex/internal/repository/tag"
	"github.com/kailas-cloud/assetdex/internal/usecase/assetquery"
	"github.com/kailas-cloud/assetdex/internal/usecase/enrich"
	"github.com/kailas-cloud/assetdex/internal/usecase/ingest"
)

func startRedis(t *testing.T) (addr string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:8",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start redis container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "6379/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	return fmt.Sprintf("%s:%s", host, mapped.Port()), func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestRedisDriver_Integration(t *testing.T) {
	addr, stop := startRedis(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := dbRedis.NewStore(dbRedis.Config{Addrs: []string{addr}})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()
	if err := store.WaitForReady(ctx, 30*time.Second); err != nil {
		t.Fatalf("WaitForReady: %v", err)
	}

	assets := assetrepo.New(store)
	if err := assets.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if err := assets.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex twice: %v", err)
	}
	// the initial scan of an empty keyspace finishes almost at once
	deadline := time.Now().Add(5 * time.Second)
	for {
		err := assets.IndexReady(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, db.ErrIndexBuilding) || time.Now().After(deadline) {
			t.Fatalf("IndexReady: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	tags := tagrepo.New(store)
	writer := ingest.New(assets, tags)
	svc := assetquery.New(assets, tags, querylang.MustNew(),
		enrich.New(tags, "https://cdn.test"), assetquery.DefaultOptions())

	app := uuid.New()
	drafts := []domasset.Draft{
		{FileName: "summer sale banner.png", FileHash: "h1", MimeType: "image/png", FileSize: 4000,
			Slug: "banner", Tags: []string{"campaign", "summer"}, PixelWidth: 1200, PixelHeight: 400},
		{FileName: "logo.svg", FileHash: "h2", MimeType: "image/svg+xml", FileSize: 900, Slug: "logo",
			Tags: []string{"brand"}},
		{FileName: "terms.pdf", FileHash: "h1", MimeType: "application/pdf", FileSize: 120000, Slug: "terms"},
	}
	ids := make([]uuid.UUID, len(drafts))
	for i, d := range drafts {
		ids[i] = uuid.New()
		if _, _, err := writer.Upsert(ctx, app, ids[i], d); err != nil {
			t.Fatalf("Upsert %s: %v", d.FileName, err)
		}
	}
	// another app's asset must never leak into results
	if _, _, err := writer.Upsert(ctx, uuid.New(), uuid.New(), drafts[0]); err != nil {
		t.Fatalf("Upsert foreign: %v", err)
	}

	scope := query.Scope{AppID: app}
	text := func(expr string) query.Request {
		return query.ByText("$filter=" + url.QueryEscape(expr) + "&$orderby=fileSize")
	}

	tests := []struct {
		name string
		req  query.Request
		want []uuid.UUID
	}{
		{"all", query.ByText("$orderby=fileSize"), []uuid.UUID{ids[1], ids[0], ids[2]}},
		{"images", text(`isImage`), []uuid.UUID{ids[1], ids[0]}},
		{"tag by name", text(`"summer" in tags`), []uuid.UUID{ids[0]}},
		{"prefix", text(`mimeType.startsWith("image/")`), []uuid.UUID{ids[1], ids[0]}},
		{"range", text(`fileSize > 1000 && fileSize <= 120000`), []uuid.UUID{ids[0], ids[2]}},
		{"not", text(`!(slug in ["logo", "terms"])`), []uuid.UUID{ids[0]}},
		{"full text", query.ByText("$search=sale"), []uuid.UUID{ids[0]}},
		{"ids", query.ByIDs(ids[2], uuid.New(), ids[0]), []uuid.UUID{ids[2], ids[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Query(ctx, scope, tt.req)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(page.Items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(page.Items), len(tt.want))
			}
			for i, id := range tt.want {
				if page.Items[i].ID() != id {
					t.Errorf("item %d = %s (%s), want %s", i, page.Items[i].ID(), page.Items[i].FileName(), id)
				}
			}
		})
	}

	t.Run("tag names", func(t *testing.T) {
		e, ok, err := svc.FindByID(ctx, ids[0])
		if err != nil || !ok {
			t.Fatalf("FindByID = %v, %v", ok, err)
		}
		names := e.TagNames()
		if len(names) != 2 || names[0] != "campaign" || names[1] != "summer" {
			t.Errorf("tag names = %v", names)
		}
	})

	t.Run("by hash", func(t *testing.T) {
		found, err := svc.FindByHash(ctx, app, "h1")
		if err != nil {
			t.Fatalf("FindByHash: %v", err)
		}
		if len(found) != 2 {
			t.Errorf("got %d assets, want 2", len(found))
		}
	})

	t.Run("paging", func(t *testing.T) {
		page, err := svc.Query(ctx, scope, query.ByText("$orderby=fileSize%20desc&$top=1&$skip=1"))
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if page.Total != 3 || len(page.Items) != 1 || page.Items[0].ID() != ids[0] {
			t.Errorf("page = total %d, %d items", page.Total, len(page.Items))
		}
	})

	t.Run("unsupported by storage", func(t *testing.T) {
		_, err := svc.Query(ctx, scope, text(`fileName > "m"`))
		if err == nil {
			t.Fatal("expected a validation error")
		}
		var qve *domain.QueryValidationError
		if !errors.As(err, &qve) {
			t.Errorf("error = %v, want *domain.QueryValidationError", err)
		}
	})
}
