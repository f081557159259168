package asset

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
)

// Field limits.
const (
	MaxFileNameLength = 512
	MaxTagsPerAsset   = 64
	MaxTagLength      = 128
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-._][a-z0-9]+)*$`)

// Draft is the caller-supplied part of an asset; ids, versions and timestamps
// are assigned on write.
type Draft struct {
	FileName    string
	FileHash    string
	MimeType    string
	FileSize    int64
	Slug        string
	Tags        []string
	PixelWidth  int
	PixelHeight int
	CreatedBy   string
}

// Validate checks a draft against field constraints.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.FileName) == "" {
		return fmt.Errorf("file name is required: %w", domain.ErrInvalidAsset)
	}
	if len(d.FileName) > MaxFileNameLength {
		return fmt.Errorf("file name too long (max %d): %w", MaxFileNameLength, domain.ErrInvalidAsset)
	}
	if d.FileSize < 0 {
		return fmt.Errorf("file size must not be negative: %w", domain.ErrInvalidAsset)
	}
	if d.MimeType == "" {
		return fmt.Errorf("mime type is required: %w", domain.ErrInvalidAsset)
	}
	if d.Slug != "" && !slugRegex.MatchString(d.Slug) {
		return fmt.Errorf("slug %q must be lowercase alphanumeric with separators: %w", d.Slug, domain.ErrInvalidAsset)
	}
	if len(d.Tags) > MaxTagsPerAsset {
		return fmt.Errorf("too many tags (max %d): %w", MaxTagsPerAsset, domain.ErrInvalidAsset)
	}
	for _, t := range d.Tags {
		if strings.TrimSpace(t) == "" || len(t) > MaxTagLength {
			return fmt.Errorf("tag %q must be 1-%d chars: %w", t, MaxTagLength, domain.ErrInvalidAsset)
		}
	}
	if d.PixelWidth < 0 || d.PixelHeight < 0 {
		return fmt.Errorf("pixel dimensions must not be negative: %w", domain.ErrInvalidAsset)
	}
	return nil
}

// Params holds every persisted asset field (storage hydration).
type Params struct {
	ID           uuid.UUID
	AppID        uuid.UUID
	FileName     string
	FileHash     string
	MimeType     string
	FileSize     int64
	FileVersion  int64
	Slug         string
	Tags         []string
	IsImage      bool
	PixelWidth   int
	PixelHeight  int
	CreatedBy    string
	Created      time.Time
	LastModified time.Time
	Version      int64
}

// Asset is a stored catalog record (immutable value object).
type Asset struct {
	p Params
}

// Reconstruct creates an Asset without validation.
func Reconstruct(p Params) Asset {
	if p.Tags != nil {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		p.Tags = tags
	}
	return Asset{p: p}
}

// ID returns the asset identifier.
func (a *Asset) ID() uuid.UUID { return a.p.ID }

// AppID returns the owning app (tenant).
func (a *Asset) AppID() uuid.UUID { return a.p.AppID }

// FileName returns the original file name.
func (a *Asset) FileName() string { return a.p.FileName }

// FileHash returns the content hash.
func (a *Asset) FileHash() string { return a.p.FileHash }

// MimeType returns the content type.
func (a *Asset) MimeType() string { return a.p.MimeType }

// FileSize returns the size in bytes.
func (a *Asset) FileSize() int64 { return a.p.FileSize }

// FileVersion returns the content revision, bumped when the file changes.
func (a *Asset) FileVersion() int64 { return a.p.FileVersion }

// Slug returns the URL-friendly name.
func (a *Asset) Slug() string { return a.p.Slug }

// Tags returns the tag ids.
func (a *Asset) Tags() []string { return a.p.Tags }

// IsImage reports whether the asset is an image.
func (a *Asset) IsImage() bool { return a.p.IsImage }

// PixelWidth returns the image width (0 if unknown).
func (a *Asset) PixelWidth() int { return a.p.PixelWidth }

// PixelHeight returns the image height (0 if unknown).
func (a *Asset) PixelHeight() int { return a.p.PixelHeight }

// CreatedBy returns the creating actor.
func (a *Asset) CreatedBy() string { return a.p.CreatedBy }

// Created returns the creation time.
func (a *Asset) Created() time.Time { return a.p.Created }

// LastModified returns the last write time.
func (a *Asset) LastModified() time.Time { return a.p.LastModified }

// Version returns the record version.
func (a *Asset) Version() int64 { return a.p.Version }

// Params returns a copy of all fields.
func (a *Asset) Params() Params {
	p := a.p
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}
