package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domtag "github.com/kailas-cloud/assetdex/internal/domain/tag"
)

// TagRepo implements the tag resolver and tag store contracts on SQLite.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo creates a tag repository.
func NewTagRepo(s *Store) *TagRepo {
	return &TagRepo{db: s.db}
}

// Tags returns the app's tag set.
func (r *TagRepo) Tags(ctx context.Context, appID uuid.UUID) (domtag.Set, error) {
	m, err := loadTags(ctx, r.db, appID)
	if err != nil {
		return domtag.Set{}, err
	}
	return domtag.NewSet(m), nil
}

// EnsureTags returns the ids of the given names, creating missing tags in one
// transaction. Order follows names.
func (r *TagRepo) EnsureTags(ctx context.Context, appID uuid.UUID, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (app_id, id, name) VALUES (?, ?, ?)`,
			appID.String(), uuid.NewString(), name,
		); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", name, err)
		}
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE app_id = ? AND name = ?`, appID.String(), name,
		).Scan(&ids[i]); err != nil {
			return nil, fmt.Errorf("resolve tag %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tags: %w", err)
	}
	return ids, nil
}

func loadTags(ctx context.Context, db *sql.DB, appID uuid.UUID) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM tags WHERE app_id = ?`, appID.String())
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	m := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		m[id] = name
	}
	return m, rows.Err()
}
