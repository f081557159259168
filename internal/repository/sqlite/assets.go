package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
)

const assetColumns = `id, app_id, file_name, file_hash, mime_type, file_size, file_version, slug,
	tags, is_image, pixel_width, pixel_height, created_by, created, last_modified, version`

// MaxHashMatches caps the number of assets returned by a hash lookup.
const MaxHashMatches = 1000

// AssetRepo implements the assetquery and ingest repository contracts on SQLite.
type AssetRepo struct {
	db *sql.DB
}

// NewAssetRepo creates an asset repository.
func NewAssetRepo(s *Store) *AssetRepo {
	return &AssetRepo{db: s.db}
}

// Upsert inserts or replaces an asset row.
func (r *AssetRepo) Upsert(ctx context.Context, a domasset.Asset) error {
	tags := a.Tags()
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO assets (`+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			app_id = excluded.app_id,
			file_name = excluded.file_name,
			file_hash = excluded.file_hash,
			mime_type = excluded.mime_type,
			file_size = excluded.file_size,
			file_version = excluded.file_version,
			slug = excluded.slug,
			tags = excluded.tags,
			is_image = excluded.is_image,
			pixel_width = excluded.pixel_width,
			pixel_height = excluded.pixel_height,
			created_by = excluded.created_by,
			created = excluded.created,
			last_modified = excluded.last_modified,
			version = excluded.version`,
		a.ID().String(), a.AppID().String(), a.FileName(), a.FileHash(), a.MimeType(),
		a.FileSize(), a.FileVersion(), a.Slug(), string(tagsJSON), a.IsImage(),
		a.PixelWidth(), a.PixelHeight(), a.CreatedBy(),
		a.Created().UnixMilli(), a.LastModified().UnixMilli(), a.Version(),
	)
	if err != nil {
		return fmt.Errorf("upsert asset %s: %w", a.ID(), err)
	}
	return nil
}

// Get returns an asset by id or domain.ErrAssetNotFound.
func (r *AssetRepo) Get(ctx context.Context, id uuid.UUID) (domasset.Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id.String())
	a, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domasset.Asset{}, domain.ErrAssetNotFound
	}
	if err != nil {
		return domasset.Asset{}, fmt.Errorf("get asset %s: %w", id, err)
	}
	return a, nil
}

// QueryByIDs loads the given ids of one app; missing ids are skipped.
func (r *AssetRepo) QueryByIDs(ctx context.Context, appID uuid.UUID, ids []uuid.UUID) (query.Page[domasset.Asset], error) {
	if len(ids) == 0 {
		return query.Empty[domasset.Asset](), nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, appID.String())
	for _, id := range ids {
		args = append(args, id.String())
	}

	items, err := r.list(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE app_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return query.Page[domasset.Asset]{}, fmt.Errorf("query by ids: %w", err)
	}
	return query.NewPage(int64(len(items)), items), nil
}

// QueryByHash returns the app's assets with the given content hash, newest first.
func (r *AssetRepo) QueryByHash(ctx context.Context, appID uuid.UUID, hash string) ([]domasset.Asset, error) {
	items, err := r.list(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE app_id = ? AND file_hash = ?
		 ORDER BY last_modified DESC, id ASC LIMIT ?`,
		appID.String(), hash, MaxHashMatches)
	if err != nil {
		return nil, fmt.Errorf("query by hash: %w", err)
	}
	return items, nil
}

// Query runs a normalized query with every sort term applied.
func (r *AssetRepo) Query(ctx context.Context, appID uuid.UUID, q query.Query) (query.Page[domasset.Asset], error) {
	cond, args, err := buildWhere(appID, &q)
	if err != nil {
		return query.Page[domasset.Asset]{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE `+cond, args...).Scan(&total); err != nil {
		return query.Page[domasset.Asset]{}, fmt.Errorf("count assets: %w", err)
	}

	limit := int64(q.Take)
	if q.Take == query.Unbounded {
		limit = -1
	}
	pageArgs := append(append(make([]any, 0, len(args)+2), args...), limit, q.Skip)

	items, err := r.list(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE `+cond+orderBy(q.Sort)+` LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return query.Page[domasset.Asset]{}, fmt.Errorf("query assets: %w", err)
	}
	return query.NewPage(total, items), nil
}

func (r *AssetRepo) list(ctx context.Context, stmt string, args ...any) ([]domasset.Asset, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domasset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner) (domasset.Asset, error) {
	var (
		id, appID, tagsJSON string
		created, lastMod    int64
		p                   domasset.Params
	)
	err := s.Scan(&id, &appID, &p.FileName, &p.FileHash, &p.MimeType, &p.FileSize, &p.FileVersion, &p.Slug,
		&tagsJSON, &p.IsImage, &p.PixelWidth, &p.PixelHeight, &p.CreatedBy, &created, &lastMod, &p.Version)
	if err != nil {
		return domasset.Asset{}, err
	}

	if p.ID, err = uuid.Parse(id); err != nil {
		return domasset.Asset{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	if p.AppID, err = uuid.Parse(appID); err != nil {
		return domasset.Asset{}, fmt.Errorf("parse app id %q: %w", appID, err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		return domasset.Asset{}, fmt.Errorf("unmarshal tags of %s: %w", id, err)
	}
	p.Created = time.UnixMilli(created).UTC()
	p.LastModified = time.UnixMilli(lastMod).UTC()

	return domasset.Reconstruct(p), nil
}
