package assetdex

import (
	"time"

	"github.com/google/uuid"

	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// Asset is an enriched catalog record.
type Asset struct {
	ID           uuid.UUID
	AppID        uuid.UUID
	FileName     string
	FileHash     string
	FileType     string
	MimeType     string
	FileSize     int64
	FileVersion  int64
	Slug         string
	Tags         []string // tag names
	IsImage      bool
	PixelWidth   int
	PixelHeight  int
	CreatedBy    string
	Created      time.Time
	LastModified time.Time
	Version      int64
	ContentURL   string
	ThumbnailURL string
	ETag         string
}

// AssetInput is the caller-supplied part of an asset. Tags are names; unknown
// names are created.
type AssetInput struct {
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

// BatchItem is one asset of UpsertMany.
type BatchItem struct {
	ID    uuid.UUID
	Input AssetInput
}

// BatchResult reports one item of UpsertMany. Err is nil on success.
type BatchResult struct {
	ID      uuid.UUID
	Created bool
	Err     error
}

// Page is one page of a query result.
type Page struct {
	Total int64
	Items []Asset
}

func fromEnriched(e *domasset.Enriched) Asset {
	return Asset{
		ID:           e.ID(),
		AppID:        e.AppID(),
		FileName:     e.FileName(),
		FileHash:     e.FileHash(),
		FileType:     e.FileType(),
		MimeType:     e.MimeType(),
		FileSize:     e.FileSize(),
		FileVersion:  e.FileVersion(),
		Slug:         e.Slug(),
		Tags:         e.TagNames(),
		IsImage:      e.IsImage(),
		PixelWidth:   e.PixelWidth(),
		PixelHeight:  e.PixelHeight(),
		CreatedBy:    e.CreatedBy(),
		Created:      e.Created(),
		LastModified: e.LastModified(),
		Version:      e.Version(),
		ContentURL:   e.ContentURL(),
		ThumbnailURL: e.ThumbnailURL(),
		ETag:         e.ETag(),
	}
}

func fromEnrichedList(es []domasset.Enriched) []Asset {
	out := make([]Asset, len(es))
	for i := range es {
		out[i] = fromEnriched(&es[i])
	}
	return out
}

func (in AssetInput) toDraft() domasset.Draft {
	return domasset.Draft{
		FileName:    in.FileName,
		FileHash:    in.FileHash,
		MimeType:    in.MimeType,
		FileSize:    in.FileSize,
		Slug:        in.Slug,
		Tags:        in.Tags,
		PixelWidth:  in.PixelWidth,
		PixelHeight: in.PixelHeight,
		CreatedBy:   in.CreatedBy,
	}
}
