package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/asset"
	"github.com/kailas-cloud/assetdex/internal/domain/tag"
)

type mockTags struct {
	tagsFn func(ctx context.Context, appID uuid.UUID) (tag.Set, error)
	calls  int
}

func (m *mockTags) Tags(ctx context.Context, appID uuid.UUID) (tag.Set, error) {
	m.calls++
	return m.tagsFn(ctx, appID)
}

func fixedTags(idToName map[string]string) *mockTags {
	return &mockTags{tagsFn: func(context.Context, uuid.UUID) (tag.Set, error) {
		return tag.NewSet(idToName), nil
	}}
}

func TestEnrichMany_DerivedFields(t *testing.T) {
	app := uuid.New()
	img := asset.Reconstruct(asset.Params{
		ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), AppID: app,
		FileName: "Logo.PNG", IsImage: true, FileVersion: 3, Version: 7, Tags: []string{"t1", "gone"},
	})
	doc := asset.Reconstruct(asset.Params{
		ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), AppID: app,
		FileName: "README", FileVersion: 1, Version: 2,
	})

	tags := fixedTags(map[string]string{"t1": "logo"})
	svc := New(tags, "https://cdn.example.com/")

	got, err := svc.EnrichMany(context.Background(), []asset.Asset{img, doc})
	if err != nil {
		t.Fatalf("EnrichMany: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	e := got[0]
	if e.ID() != img.ID() {
		t.Errorf("order changed: first is %s", e.ID())
	}
	if names := e.TagNames(); len(names) != 2 || names[0] != "logo" || names[1] != "gone" {
		t.Errorf("TagNames = %v, want [logo gone]", names)
	}
	if e.FileType() != "png" {
		t.Errorf("FileType = %q, want png", e.FileType())
	}
	wantURL := "https://cdn.example.com/assets/11111111-1111-1111-1111-111111111111?version=3"
	if e.ContentURL() != wantURL {
		t.Errorf("ContentURL = %q, want %q", e.ContentURL(), wantURL)
	}
	wantThumb := "https://cdn.example.com/assets/11111111-1111-1111-1111-111111111111/thumbnail?version=3"
	if e.ThumbnailURL() != wantThumb {
		t.Errorf("ThumbnailURL = %q, want %q", e.ThumbnailURL(), wantThumb)
	}
	if e.ETag() != `W/"7"` {
		t.Errorf("ETag = %q", e.ETag())
	}

	d := got[1]
	if d.ThumbnailURL() != "" {
		t.Errorf("non-image ThumbnailURL = %q, want empty", d.ThumbnailURL())
	}
	if d.FileType() != "blob" {
		t.Errorf("FileType = %q, want blob", d.FileType())
	}
	if d.TagNames() == nil || len(d.TagNames()) != 0 {
		t.Errorf("TagNames = %v, want empty non-nil", d.TagNames())
	}
	if tags.calls != 1 {
		t.Errorf("tag store called %d times, want 1", tags.calls)
	}
}

func TestEnrichMany_NoTagsNoLookup(t *testing.T) {
	tags := fixedTags(nil)
	svc := New(tags, "")

	a := asset.Reconstruct(asset.Params{ID: uuid.New(), AppID: uuid.New(), FileName: "a.txt"})
	if _, err := svc.EnrichMany(context.Background(), []asset.Asset{a}); err != nil {
		t.Fatalf("EnrichMany: %v", err)
	}
	if tags.calls != 0 {
		t.Errorf("tag store called %d times, want 0", tags.calls)
	}
}

func TestEnrichMany_Empty(t *testing.T) {
	got, err := New(fixedTags(nil), "").EnrichMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("EnrichMany: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil", got)
	}
}

func TestEnrich_TagStoreError(t *testing.T) {
	boom := errors.New("down")
	tags := &mockTags{tagsFn: func(context.Context, uuid.UUID) (tag.Set, error) {
		return tag.Set{}, boom
	}}
	a := asset.Reconstruct(asset.Params{ID: uuid.New(), AppID: uuid.New(), Tags: []string{"x"}})

	if _, err := New(tags, "").Enrich(context.Background(), a); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
}

func TestFileType(t *testing.T) {
	tests := map[string]string{
		"photo.JPG":      "jpg",
		"archive.tar.gz": "gz",
		"noext":          "blob",
		"":               "blob",
		"dir.d/file":     "blob",
	}
	for in, want := range tests {
		if got := FileType(in); got != want {
			t.Errorf("FileType(%q) = %q, want %q", in, got, want)
		}
	}
}
