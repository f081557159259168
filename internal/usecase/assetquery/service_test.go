package assetquery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/tag"
	"github.com/kailas-cloud/assetdex/internal/querylang"
)

// --- Mocks ---

type mockRepo struct {
	getFn         func(ctx context.Context, id uuid.UUID) (asset.Asset, error)
	queryByHashFn func(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Asset, error)
	queryByIDsFn  func(ctx context.Context, appID uuid.UUID, ids []uuid.UUID) (query.Page[asset.Asset], error)
	queryFn       func(ctx context.Context, appID uuid.UUID, q query.Query) (query.Page[asset.Asset], error)

	calls int
}

func (m *mockRepo) Get(ctx context.Context, id uuid.UUID) (asset.Asset, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return asset.Asset{}, domain.ErrAssetNotFound
}

func (m *mockRepo) QueryByHash(ctx context.Context, appID uuid.UUID, hash string) ([]asset.Asset, error) {
	m.calls++
	if m.queryByHashFn != nil {
		return m.queryByHashFn(ctx, appID, hash)
	}
	return nil, nil
}

func (m *mockRepo) QueryByIDs(
	ctx context.Context, appID uuid.UUID, ids []uuid.UUID,
) (query.Page[asset.Asset], error) {
	m.calls++
	if m.queryByIDsFn != nil {
		return m.queryByIDsFn(ctx, appID, ids)
	}
	return query.Empty[asset.Asset](), nil
}

func (m *mockRepo) Query(
	ctx context.Context, appID uuid.UUID, q query.Query,
) (query.Page[asset.Asset], error) {
	m.calls++
	if m.queryFn != nil {
		return m.queryFn(ctx, appID, q)
	}
	return query.Empty[asset.Asset](), nil
}

type mockTags struct {
	set   map[string]string // id -> name
	err   error
	calls int
}

func (m *mockTags) Tags(_ context.Context, _ uuid.UUID) (tag.Set, error) {
	m.calls++
	if m.err != nil {
		return tag.Set{}, m.err
	}
	return tag.NewSet(m.set), nil
}

type mockEnricher struct {
	err error
}

func (m *mockEnricher) Enrich(_ context.Context, a asset.Asset) (asset.Enriched, error) {
	if m.err != nil {
		return asset.Enriched{}, m.err
	}
	return asset.NewEnriched(a, asset.Derived{ETag: "e"}), nil
}

func (m *mockEnricher) EnrichMany(ctx context.Context, as []asset.Asset) ([]asset.Enriched, error) {
	out := make([]asset.Enriched, 0, len(as))
	for _, a := range as {
		e, err := m.Enrich(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// --- Helpers ---

var appID = uuid.MustParse("4f1c0b8e-9a57-4c1e-8c3a-2b1d9e0f6a11")

func newAsset(id uuid.UUID, name string) asset.Asset {
	return asset.Reconstruct(asset.Params{ID: id, AppID: appID, FileName: name, MimeType: "image/png"})
}

func newService(repo *mockRepo, tags *mockTags, opts Options) *Service {
	if tags == nil {
		tags = &mockTags{}
	}
	return New(repo, tags, querylang.MustNew(), &mockEnricher{}, opts)
}

func scope() query.Scope { return query.Scope{AppID: appID} }

func ids(items []asset.Enriched) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i := range items {
		out[i] = items[i].ID()
	}
	return out
}

// --- Id path ---

func TestQuery_IDs_KeepsCallerOrderAndDropsMissing(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	var got []uuid.UUID
	repo := &mockRepo{
		queryByIDsFn: func(_ context.Context, app uuid.UUID, req []uuid.UUID) (query.Page[asset.Asset], error) {
			if app != appID {
				t.Errorf("app = %s, want %s", app, appID)
			}
			got = req
			// Storage order differs from the request.
			return query.NewPage(2, []asset.Asset{newAsset(a, "a"), newAsset(b, "b")}), nil
		},
	}

	page, err := newService(repo, nil, DefaultOptions()).Query(context.Background(), scope(), query.ByIDs(b, a, c))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("repository asked for %d ids, want 3", len(got))
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	order := ids(page.Items)
	if len(order) != 2 || order[0] != b || order[1] != a {
		t.Errorf("order = %v, want [%s %s]", order, b, a)
	}
}

func TestQuery_IDs_Empty(t *testing.T) {
	repo := &mockRepo{}
	page, err := newService(repo, nil, DefaultOptions()).Query(context.Background(), scope(), query.ByIDs())
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 {
		t.Errorf("page = %+v, want empty", page)
	}
	if page.Items == nil {
		t.Error("Items should be non-nil")
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestQuery_IDs_Duplicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	repo := &mockRepo{
		queryByIDsFn: func(_ context.Context, _ uuid.UUID, req []uuid.UUID) (query.Page[asset.Asset], error) {
			if len(req) != 2 {
				t.Errorf("repository asked for %v, want 2 unique ids", req)
			}
			return query.NewPage(2, []asset.Asset{newAsset(b, "b"), newAsset(a, "a")}), nil
		},
	}

	page, err := newService(repo, nil, DefaultOptions()).Query(context.Background(), scope(), query.ByIDs(a, b, a))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	order := ids(page.Items)
	if len(order) != 2 || order[0] != a || order[1] != b {
		t.Errorf("order = %v, want [%s %s]", order, a, b)
	}
}

func TestQuery_IDs_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockRepo{
		queryByIDsFn: func(context.Context, uuid.UUID, []uuid.UUID) (query.Page[asset.Asset], error) {
			return query.Page[asset.Asset]{}, boom
		},
	}
	_, err := newService(repo, nil, DefaultOptions()).Query(context.Background(), scope(), query.ByIDs(uuid.New()))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, domain.ErrValidation) {
		t.Error("repository error must not be a validation error")
	}
}

// --- Text path ---

func TestQuery_Text_EmptyAppliesDefaults(t *testing.T) {
	var got query.Query
	repo := &mockRepo{
		queryFn: func(_ context.Context, _ uuid.UUID, q query.Query) (query.Page[asset.Asset], error) {
			got = q
			return query.NewPage(1, []asset.Asset{newAsset(uuid.New(), "x")}), nil
		},
	}

	page, err := newService(repo, nil, DefaultOptions()).Query(context.Background(), scope(), query.ByText(""))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Errorf("page = total %d, %d items", page.Total, len(page.Items))
	}
	if len(got.Sort) != 1 || got.Sort[0] != query.DefaultSort() {
		t.Errorf("Sort = %v, want [lastModified desc]", got.Sort)
	}
	if got.Take != DefaultPageSize {
		t.Errorf("Take = %d, want %d", got.Take, DefaultPageSize)
	}
	if got.Filter != nil {
		t.Errorf("Filter = %v, want nil", got.Filter)
	}
}

func TestNormalize_Take(t *testing.T) {
	opts := Options{DefaultPageSize: 20, MaxResults: 100, DefaultPageSizeGraph: 10}
	tests := []struct {
		text string
		want int
	}{
		{"", 20},
		{"$top=500", 100},
		{"$top=100", 100},
		{"$top=7", 7},
		{"$top=0", 0},
	}

	svc := newService(&mockRepo{}, nil, opts)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q, err := svc.Normalize(context.Background(), scope(), tt.text)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if q.Take != tt.want {
				t.Errorf("Take = %d, want %d", q.Take, tt.want)
			}
		})
	}
}

func TestNormalize_KeepsExplicitSort(t *testing.T) {
	svc := newService(&mockRepo{}, nil, DefaultOptions())
	q, err := svc.Normalize(context.Background(), scope(), "$orderby=fileName")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(q.Sort) != 1 || q.Sort[0].Field != "fileName" || q.Sort[0].Order != query.Ascending {
		t.Errorf("Sort = %v, want [fileName asc]", q.Sort)
	}
}

func TestQuery_Text_MalformedNeverReachesRepository(t *testing.T) {
	repo := &mockRepo{}
	_, err := newService(repo, nil, DefaultOptions()).
		Query(context.Background(), scope(), query.ByText(`$filter=fileName%20%3D%3D`))

	var ve *domain.QueryValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *QueryValidationError", err)
	}
	if !strings.HasPrefix(ve.Message, "Failed to parse query: ") {
		t.Errorf("Message = %q", ve.Message)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestQuery_Text_UnsupportedIsValidation(t *testing.T) {
	repo := &mockRepo{}
	_, err := newService(repo, nil, DefaultOptions()).
		Query(context.Background(), scope(), query.ByText("$expand=tags"))

	var ve *domain.QueryValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *QueryValidationError", err)
	}
	if !strings.HasPrefix(ve.Message, "Query operation is not supported") {
		t.Errorf("Message = %q", ve.Message)
	}
	if !errors.Is(err, querylang.ErrNotSupported) {
		t.Error("expected cause to be kept")
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestNormalize_RewritesTagNames(t *testing.T) {
	tags := &mockTags{set: map[string]string{"t-1": "logo", "t-2": "banner"}}
	svc := newService(&mockRepo{}, tags, DefaultOptions())

	q, err := svc.Normalize(context.Background(), scope(),
		`$filter=`+`%22logo%22%20in%20tags%20%26%26%20!(%22unknown%22%20in%20tags)%20%26%26%20fileName%20%3D%3D%20%22logo%22`)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := `and(eq(tags,"t-1"),not(eq(tags,"unknown")),eq(fileName,"logo"))`
	if got := q.Filter.String(); got != want {
		t.Errorf("Filter = %s, want %s", got, want)
	}
	if tags.calls != 1 {
		t.Errorf("tag store called %d times, want 1", tags.calls)
	}
}

func TestNormalize_SkipsTagStoreWithoutTagFilter(t *testing.T) {
	tags := &mockTags{err: errors.New("must not be called")}
	svc := newService(&mockRepo{}, tags, DefaultOptions())

	if _, err := svc.Normalize(context.Background(), scope(), "$filter=isImage"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if tags.calls != 0 {
		t.Errorf("tag store called %d times, want 0", tags.calls)
	}
}

func TestNormalize_TagStoreErrorPropagates(t *testing.T) {
	boom := errors.New("tag store down")
	svc := newService(&mockRepo{}, &mockTags{err: boom}, DefaultOptions())

	_, err := svc.Normalize(context.Background(), scope(), "$filter=%22a%22%20in%20tags")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, domain.ErrValidation) {
		t.Error("tag store error must not be a validation error")
	}
}

func TestQuery_EnricherErrorPropagates(t *testing.T) {
	boom := errors.New("enrich failed")
	repo := &mockRepo{
		queryFn: func(context.Context, uuid.UUID, query.Query) (query.Page[asset.Asset], error) {
			return query.NewPage(1, []asset.Asset{newAsset(uuid.New(), "x")}), nil
		},
	}
	svc := New(repo, &mockTags{}, querylang.MustNew(), &mockEnricher{err: boom}, DefaultOptions())

	_, err := svc.Query(context.Background(), scope(), query.ByText(""))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
}

// --- Single lookups ---

func TestFindByID(t *testing.T) {
	id := uuid.New()
	repo := &mockRepo{
		getFn: func(_ context.Context, got uuid.UUID) (asset.Asset, error) {
			if got != id {
				return asset.Asset{}, domain.ErrAssetNotFound
			}
			return newAsset(id, "a.png"), nil
		},
	}
	svc := newService(repo, nil, DefaultOptions())

	e, ok, err := svc.FindByID(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("FindByID = ok %v, err %v", ok, err)
	}
	if e.ID() != id || e.ETag() != "e" {
		t.Errorf("got %s etag %q", e.ID(), e.ETag())
	}

	_, ok, err = svc.FindByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FindByID(missing): %v", err)
	}
	if ok {
		t.Error("expected missing asset to be absent")
	}
}

func TestFindByID_RepositoryError(t *testing.T) {
	boom := errors.New("timeout")
	repo := &mockRepo{
		getFn: func(context.Context, uuid.UUID) (asset.Asset, error) { return asset.Asset{}, boom },
	}
	_, ok, err := newService(repo, nil, DefaultOptions()).FindByID(context.Background(), uuid.New())
	if !errors.Is(err, boom) || ok {
		t.Fatalf("FindByID = ok %v, err %v", ok, err)
	}
}

func TestFindByHash(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	repo := &mockRepo{
		queryByHashFn: func(_ context.Context, _ uuid.UUID, hash string) ([]asset.Asset, error) {
			if hash != "abc" {
				t.Errorf("hash = %q", hash)
			}
			return []asset.Asset{newAsset(b, "b"), newAsset(a, "a")}, nil
		},
	}
	got, err := newService(repo, nil, DefaultOptions()).FindByHash(context.Background(), appID, "abc")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	order := ids(got)
	if len(order) != 2 || order[0] != b || order[1] != a {
		t.Errorf("order = %v, want repository order", order)
	}
}

func TestFindByHash_EmptyHash(t *testing.T) {
	repo := &mockRepo{}
	_, err := newService(repo, nil, DefaultOptions()).FindByHash(context.Background(), appID, "")
	if !errors.Is(err, domain.ErrHashRequired) {
		t.Errorf("FindByHash(\"\") error = %v, want ErrHashRequired", err)
	}
	if repo.calls != 0 {
		t.Errorf("repository called %d times, want 0", repo.calls)
	}
}

func TestFindByHash_BlankHashIsLookedUp(t *testing.T) {
	var seen string
	repo := &mockRepo{
		queryByHashFn: func(_ context.Context, _ uuid.UUID, hash string) ([]asset.Asset, error) {
			seen = hash
			return nil, nil
		},
	}
	got, err := newService(repo, nil, DefaultOptions()).FindByHash(context.Background(), appID, "   ")
	if err != nil {
		t.Fatalf("FindByHash: %v", err)
	}
	if seen != "   " || len(got) != 0 {
		t.Errorf("repository saw %q, got %v", seen, got)
	}
}

func TestDefaultPageSizeGraph(t *testing.T) {
	svc := newService(&mockRepo{}, nil, Options{DefaultPageSizeGraph: 7})
	if got := svc.DefaultPageSizeGraph(); got != 7 {
		t.Errorf("DefaultPageSizeGraph = %d, want 7", got)
	}
}

func TestOptions_Normalized(t *testing.T) {
	o := Options{DefaultPageSize: 500, MaxResults: 50}.normalized()
	if o.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want clamped to 50", o.DefaultPageSize)
	}
	if o.DefaultPageSizeGraph != DefaultPageSizeGraph {
		t.Errorf("DefaultPageSizeGraph = %d, want %d", o.DefaultPageSizeGraph, DefaultPageSizeGraph)
	}

	d := Options{}.normalized()
	if d != DefaultOptions() {
		t.Errorf("zero options = %+v, want defaults", d)
	}
}
