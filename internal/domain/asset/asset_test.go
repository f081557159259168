package asset

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

func validDraft() Draft {
	return Draft{FileName: "a.png", MimeType: "image/png", FileSize: 1, Slug: "a-png", Tags: []string{"x"}}
}

func TestDraftValidate(t *testing.T) {
	if err := (&Draft{FileName: "a", MimeType: "text/plain"}).Validate(); err != nil {
		t.Fatalf("minimal draft: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(d *Draft)
	}{
		{"empty name", func(d *Draft) { d.FileName = "  " }},
		{"long name", func(d *Draft) { d.FileName = strings.Repeat("a", MaxFileNameLength+1) }},
		{"negative size", func(d *Draft) { d.FileSize = -1 }},
		{"no mime", func(d *Draft) { d.MimeType = "" }},
		{"bad slug", func(d *Draft) { d.Slug = "Not A Slug" }},
		{"too many tags", func(d *Draft) { d.Tags = make([]string, MaxTagsPerAsset+1) }},
		{"blank tag", func(d *Draft) { d.Tags = []string{" "} }},
		{"negative pixels", func(d *Draft) { d.PixelWidth = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			if err := d.Validate(); !errors.Is(err, domain.ErrInvalidAsset) {
				t.Errorf("error = %v, want ErrInvalidAsset", err)
			}
		})
	}
}

func TestReconstruct_CopiesTags(t *testing.T) {
	tags := []string{"a", "b"}
	a := Reconstruct(Params{ID: uuid.New(), Tags: tags})
	tags[0] = "changed"
	if a.Tags()[0] != "a" {
		t.Error("Reconstruct must copy tags")
	}

	p := a.Params()
	p.Tags[1] = "changed"
	if a.Tags()[1] != "b" {
		t.Error("Params must return a copy")
	}
}

func TestEnriched(t *testing.T) {
	id := uuid.New()
	e := NewEnriched(Reconstruct(Params{ID: id}), Derived{FileType: "png", ETag: `W/"1"`})
	if e.ID() != id || e.FileType() != "png" || e.ETag() != `W/"1"` {
		t.Errorf("unexpected enriched asset: %s %s %s", e.ID(), e.FileType(), e.ETag())
	}
}
