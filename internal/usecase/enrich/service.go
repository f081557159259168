package enrich

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/tag"
)

// Service computes the read-time fields of assets.
type Service struct {
	tags    TagResolver
	baseURL string
}

// New creates an enricher. baseURL prefixes content and thumbnail links.
func New(tags TagResolver, baseURL string) *Service {
	return &Service{tags: tags, baseURL: strings.TrimRight(baseURL, "/")}
}

// Enrich decorates a single asset.
func (s *Service) Enrich(ctx context.Context, a asset.Asset) (asset.Enriched, error) {
	out, err := s.EnrichMany(ctx, []asset.Asset{a})
	if err != nil {
		return asset.Enriched{}, err
	}
	return out[0], nil
}

// EnrichMany decorates assets in order. Tags are loaded once per app and only
// for apps whose assets carry tags.
func (s *Service) EnrichMany(ctx context.Context, as []asset.Asset) ([]asset.Enriched, error) {
	sets := make(map[uuid.UUID]tag.Set)
	out := make([]asset.Enriched, 0, len(as))

	for i := range as {
		a := as[i]

		var names []string
		if len(a.Tags()) > 0 {
			set, ok := sets[a.AppID()]
			if !ok {
				var err error
				set, err = s.tags.Tags(ctx, a.AppID())
				if err != nil {
					return nil, fmt.Errorf("load tags for app %s: %w", a.AppID(), err)
				}
				sets[a.AppID()] = set
			}
			names = set.Names(a.Tags())
		}

		out = append(out, asset.NewEnriched(a, s.derive(&a, names)))
	}
	return out, nil
}

func (s *Service) derive(a *asset.Asset, tagNames []string) asset.Derived {
	d := asset.Derived{
		TagNames:   tagNames,
		FileType:   FileType(a.FileName()),
		ContentURL: fmt.Sprintf("%s/assets/%s?version=%d", s.baseURL, a.ID(), a.FileVersion()),
		ETag:       fmt.Sprintf(`W/"%d"`, a.Version()),
	}
	if d.TagNames == nil {
		d.TagNames = []string{}
	}
	if a.IsImage() {
		d.ThumbnailURL = fmt.Sprintf("%s/assets/%s/thumbnail?version=%d", s.baseURL, a.ID(), a.FileVersion())
	}
	return d
}

// FileType returns the lowercase extension of a file name without the dot,
// or "blob" when there is none.
func FileType(fileName string) string {
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		return "blob"
	}
	return strings.ToLower(ext)
}
