package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// Service writes asset records into the catalog.
type Service struct {
	repo Repository
	tags TagStore
	now  func() time.Time
}

// New creates an ingest service.
func New(repo Repository, tags TagStore) *Service {
	return &Service{repo: repo, tags: tags, now: time.Now}
}

// WithClock replaces the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Upsert creates or replaces the asset with the given id. Returns true if the
// asset was created. An id owned by another app is reported as not found.
func (s *Service) Upsert(ctx context.Context, appID, id uuid.UUID, d asset.Draft) (asset.Asset, bool, error) {
	if err := d.Validate(); err != nil {
		return asset.Asset{}, false, err //nolint:wrapcheck // domain validation error
	}

	existing, err := s.repo.Get(ctx, id)
	created := errors.Is(err, domain.ErrAssetNotFound)
	if err != nil && !created {
		return asset.Asset{}, false, fmt.Errorf("get asset: %w", err)
	}
	if !created && existing.AppID() != appID {
		return asset.Asset{}, false, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
	}

	tagIDs, err := s.resolveTags(ctx, appID, d.Tags)
	if err != nil {
		return asset.Asset{}, false, err
	}

	now := s.now().UTC()
	p := asset.Params{
		ID:           id,
		AppID:        appID,
		FileName:     strings.TrimSpace(d.FileName),
		FileHash:     d.FileHash,
		MimeType:     strings.ToLower(d.MimeType),
		FileSize:     d.FileSize,
		Slug:         d.Slug,
		Tags:         tagIDs,
		IsImage:      strings.HasPrefix(strings.ToLower(d.MimeType), "image/"),
		PixelWidth:   d.PixelWidth,
		PixelHeight:  d.PixelHeight,
		CreatedBy:    d.CreatedBy,
		Created:      now,
		LastModified: now,
	}
	if !created {
		p.Created = existing.Created()
		p.CreatedBy = existing.CreatedBy()
		p.Version = existing.Version() + 1
		p.FileVersion = existing.FileVersion()
		if existing.FileHash() != d.FileHash {
			p.FileVersion++
		}
	}

	a := asset.Reconstruct(p)
	if err := s.repo.Upsert(ctx, a); err != nil {
		return asset.Asset{}, false, fmt.Errorf("upsert asset: %w", err)
	}
	return a, created, nil
}

func (s *Service) resolveTags(ctx context.Context, appID uuid.UUID, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}
	unique := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}

	ids, err := s.tags.EnsureTags(ctx, appID, unique)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}
	return ids, nil
}
