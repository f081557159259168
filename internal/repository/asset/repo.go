// Package asset stores assets as RedisJSON documents and queries them through
// a RediSearch index.
package asset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/db"
	"github.com/kailas-cloud/assetdex/internal/domain"
	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
)

// MaxHashMatches caps the number of assets returned by a hash lookup.
const MaxHashMatches = 1000

// store is the consumer interface for assets (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Repo implements the assetquery and ingest repository contracts on Redis.
type Repo struct {
	store store
}

// New creates an asset repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the asset index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	if err := r.store.CreateIndex(ctx, buildIndex()); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// IndexReady reports an error unless the asset index exists and has finished
// its initial scan. Queries against a building index miss documents.
func (r *Repo) IndexReady(ctx context.Context) error {
	info, err := r.store.IndexInfo(ctx, indexName)
	if err != nil {
		return fmt.Errorf("index info %s: %w", indexName, err)
	}
	if info.Indexing {
		return fmt.Errorf("index %s (%d docs): %w", indexName, info.NumDocs, db.ErrIndexBuilding)
	}
	return nil
}

// Upsert stores the asset document, replacing any previous version.
func (r *Repo) Upsert(ctx context.Context, a domasset.Asset) error {
	data, err := json.Marshal(toDoc(&a))
	if err != nil {
		return fmt.Errorf("marshal asset: %w", err)
	}
	key := assetKey(a.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns an asset by id or domain.ErrAssetNotFound.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (domasset.Asset, error) {
	key := assetKey(id)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domasset.Asset{}, domain.ErrAssetNotFound
		}
		return domasset.Asset{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeAsset(raw)
}

// QueryByIDs loads the given ids of one app. Missing ids and assets of other
// apps are skipped; Total counts what was found.
func (r *Repo) QueryByIDs(ctx context.Context, appID uuid.UUID, ids []uuid.UUID) (query.Page[domasset.Asset], error) {
	if len(ids) == 0 {
		return query.Empty[domasset.Asset](), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = assetKey(id)
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return query.Page[domasset.Asset]{}, fmt.Errorf("load %d assets: %w", len(keys), err)
	}

	items := make([]domasset.Asset, 0, len(docs))
	for _, raw := range docs {
		if raw == nil {
			continue
		}
		a, err := decodeAsset(raw)
		if err != nil {
			return query.Page[domasset.Asset]{}, err
		}
		if a.AppID() != appID {
			continue
		}
		items = append(items, a)
	}
	return query.NewPage(int64(len(items)), items), nil
}

// QueryByHash returns the app's assets with the given content hash, newest first.
func (r *Repo) QueryByHash(ctx context.Context, appID uuid.UUID, hash string) ([]domasset.Asset, error) {
	res, err := r.store.Search(ctx, &db.SearchQuery{
		Index: indexName,
		Query: tagMatch("appId", appID.String()) + " " + tagMatch(field.FileHash, hash),
		Limit: MaxHashMatches,
		Sort:  sortKeys([]query.SortTerm{{Field: field.LastModified, Order: query.Descending}}),
	})
	if err != nil {
		return nil, fmt.Errorf("search by hash: %w", err)
	}
	return decodeDocs(res.Docs)
}

// Query runs a normalized query with every sort term, id last.
func (r *Repo) Query(ctx context.Context, appID uuid.UUID, q query.Query) (query.Page[domasset.Asset], error) {
	qs, err := buildQuery(appID, &q)
	if err != nil {
		return query.Page[domasset.Asset]{}, err
	}

	sq := &db.SearchQuery{
		Index:  indexName,
		Query:  qs,
		Offset: q.Skip,
		Limit:  q.Take,
	}
	sq.Sort = sortKeys(q.Sort)

	res, err := r.store.Search(ctx, sq)
	if err != nil {
		return query.Page[domasset.Asset]{}, fmt.Errorf("search assets: %w", err)
	}

	items, err := decodeDocs(res.Docs)
	if err != nil {
		return query.Page[domasset.Asset]{}, err
	}
	return query.NewPage(res.Total, items), nil
}

// sortKeys maps sort terms to index aliases and appends id so that equal
// sort values still page deterministically.
func sortKeys(terms []query.SortTerm) []db.SortKey {
	keys := make([]db.SortKey, 0, len(terms)+1)
	for _, t := range terms {
		keys = append(keys, db.SortKey{Field: t.Field, Desc: t.Order == query.Descending})
	}
	return append(keys, db.SortKey{Field: field.ID})
}

func decodeDocs(docs []db.Doc) ([]domasset.Asset, error) {
	out := make([]domasset.Asset, 0, len(docs))
	for _, d := range docs {
		a, err := decodeAsset(d.JSON)
		if err != nil {
			return nil, fmt.Errorf("decode asset %q: %w", d.Key, err)
		}
		out = append(out, a)
	}
	return out, nil
}
