// Package tag keeps each app's tags in two Redis hashes: id -> name, read by
// queries, and name -> id, which decides the one id a name gets.
package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	domtag "github.com/kailas-cloud/assetdex/internal/domain/tag"
)

const keyPrefix = domain.KeyPrefix + "tags:"

// store is the consumer interface for tags (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGet(ctx context.Context, key, field string) (string, error)
}

// Repo implements the tag resolver and tag store contracts on Redis.
type Repo struct {
	store store
	newID func() string
}

// New creates a tag repository.
func New(s store) *Repo {
	return &Repo{store: s, newID: func() string { return uuid.NewString() }}
}

func tagsKey(appID uuid.UUID) string {
	return keyPrefix + appID.String()
}

func namesKey(appID uuid.UUID) string {
	return keyPrefix + appID.String() + ":names"
}

// Tags returns the app's tag set. An app without tags yields an empty set.
func (r *Repo) Tags(ctx context.Context, appID uuid.UUID) (domtag.Set, error) {
	key := tagsKey(appID)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domtag.Set{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return domtag.NewSet(m), nil
}

// EnsureTags returns the ids of the given tag names, creating ids for names
// that have none. Duplicate names map to the same id; order follows names.
func (r *Repo) EnsureTags(ctx context.Context, appID uuid.UUID, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	set, err := r.Tags(ctx, appID)
	if err != nil {
		return nil, err
	}

	created := make(map[string]string)
	ids := make([]string, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if id, ok := set.IDByName(name); ok {
			ids[i] = id
			continue
		}
		if id, ok := created[name]; ok {
			ids[i] = id
			continue
		}

		id, err := r.claim(ctx, appID, name)
		if err != nil {
			return nil, err
		}
		created[name] = id
		ids[i] = id
	}
	return ids, nil
}

// claim returns the id of name, minting one if no writer has yet. Concurrent
// writers race on HSETNX of the name; losers adopt the winner's id.
func (r *Repo) claim(ctx context.Context, appID uuid.UUID, name string) (string, error) {
	nk := namesKey(appID)
	id := r.newID()
	won, err := r.store.HSetNX(ctx, nk, name, id)
	if err != nil {
		return "", fmt.Errorf("hsetnx %s: %w", nk, err)
	}
	if !won {
		if id, err = r.store.HGet(ctx, nk, name); err != nil {
			return "", fmt.Errorf("hget %s %q: %w", nk, name, err)
		}
	}

	// the winner may not have published its id yet; writing the same pair
	// twice is harmless
	tk := tagsKey(appID)
	if _, err := r.store.HSetNX(ctx, tk, id, name); err != nil {
		return "", fmt.Errorf("hsetnx %s: %w", tk, err)
	}
	return id, nil
}
