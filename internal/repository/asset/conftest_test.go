package asset

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/db"
	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn      func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	jsonGetMultiFn func(ctx context.Context, keys []string) ([][]byte, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexInfoFn    func(ctx context.Context, name string) (*db.IndexInfo, error)
	searchFn       func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if m.jsonGetMultiFn != nil {
		return m.jsonGetMultiFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return &db.IndexInfo{Name: name}, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

var (
	testApp   = uuid.MustParse("6f1c1c3e-4a0b-4d59-9d7c-1c2d3e4f5a6b")
	otherApp  = uuid.MustParse("0b7e7d44-2f51-4c1e-8a4e-3c8a5b1d2e3f")
	testTime  = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	testAsset = func(id uuid.UUID, app uuid.UUID) domasset.Asset {
		return domasset.Reconstruct(domasset.Params{
			ID:           id,
			AppID:        app,
			FileName:     "logo.png",
			FileHash:     "abc123",
			MimeType:     "image/png",
			FileSize:     2048,
			FileVersion:  2,
			Slug:         "logo",
			Tags:         []string{"t1"},
			IsImage:      true,
			PixelWidth:   64,
			PixelHeight:  32,
			CreatedBy:    "alice",
			Created:      testTime,
			LastModified: testTime.Add(time.Hour),
			Version:      3,
		})
	}
)
