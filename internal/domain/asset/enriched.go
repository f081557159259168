package asset

// Derived holds view-only fields computed at read time.
type Derived struct {
	TagNames     []string
	FileType     string
	ContentURL   string
	ThumbnailURL string
	ETag         string
}

// Enriched is an Asset decorated with derived fields.
type Enriched struct {
	Asset
	d Derived
}

// NewEnriched decorates an asset.
func NewEnriched(a Asset, d Derived) Enriched {
	return Enriched{Asset: a, d: d}
}

// TagNames returns tag names in the order of Tags(); unknown ids keep the id.
func (e *Enriched) TagNames() []string { return e.d.TagNames }

// FileType returns the lowercase file extension without the dot.
func (e *Enriched) FileType() string { return e.d.FileType }

// ContentURL returns the download URL.
func (e *Enriched) ContentURL() string { return e.d.ContentURL }

// ThumbnailURL returns the preview URL (images only).
func (e *Enriched) ThumbnailURL() string { return e.d.ThumbnailURL }

// ETag returns the HTTP entity tag of the record.
func (e *Enriched) ETag() string { return e.d.ETag }
