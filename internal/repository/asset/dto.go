package asset

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	domasset "github.com/kailas-cloud/assetdex/internal/domain/asset"
)

// assetDoc is the RedisJSON representation of an asset. Timestamps are unix
// milliseconds so they can be indexed as NUMERIC.
type assetDoc struct {
	ID           string   `json:"id"`
	AppID        string   `json:"appId"`
	FileName     string   `json:"fileName"`
	FileHash     string   `json:"fileHash"`
	MimeType     string   `json:"mimeType"`
	FileSize     int64    `json:"fileSize"`
	FileVersion  int64    `json:"fileVersion"`
	Slug         string   `json:"slug"`
	Tags         []string `json:"tags"`
	IsImage      bool     `json:"isImage"`
	PixelWidth   int      `json:"pixelWidth"`
	PixelHeight  int      `json:"pixelHeight"`
	CreatedBy    string   `json:"createdBy"`
	Created      int64    `json:"created"`
	LastModified int64    `json:"lastModified"`
	Version      int64    `json:"version"`
}

func toDoc(a *domasset.Asset) assetDoc {
	tags := a.Tags()
	if tags == nil {
		tags = []string{}
	}
	return assetDoc{
		ID:           a.ID().String(),
		AppID:        a.AppID().String(),
		FileName:     a.FileName(),
		FileHash:     a.FileHash(),
		MimeType:     a.MimeType(),
		FileSize:     a.FileSize(),
		FileVersion:  a.FileVersion(),
		Slug:         a.Slug(),
		Tags:         tags,
		IsImage:      a.IsImage(),
		PixelWidth:   a.PixelWidth(),
		PixelHeight:  a.PixelHeight(),
		CreatedBy:    a.CreatedBy(),
		Created:      a.Created().UnixMilli(),
		LastModified: a.LastModified().UnixMilli(),
		Version:      a.Version(),
	}
}

func (d *assetDoc) toDomain() (domasset.Asset, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domasset.Asset{}, fmt.Errorf("parse id %q: %w", d.ID, err)
	}
	appID, err := uuid.Parse(d.AppID)
	if err != nil {
		return domasset.Asset{}, fmt.Errorf("parse app id %q: %w", d.AppID, err)
	}
	return domasset.Reconstruct(domasset.Params{
		ID:           id,
		AppID:        appID,
		FileName:     d.FileName,
		FileHash:     d.FileHash,
		MimeType:     d.MimeType,
		FileSize:     d.FileSize,
		FileVersion:  d.FileVersion,
		Slug:         d.Slug,
		Tags:         d.Tags,
		IsImage:      d.IsImage,
		PixelWidth:   d.PixelWidth,
		PixelHeight:  d.PixelHeight,
		CreatedBy:    d.CreatedBy,
		Created:      time.UnixMilli(d.Created).UTC(),
		LastModified: time.UnixMilli(d.LastModified).UTC(),
		Version:      d.Version,
	}), nil
}

func decodeAsset(raw []byte) (domasset.Asset, error) {
	var d assetDoc
	if err := json.Unmarshal(raw, &d); err != nil {
		return domasset.Asset{}, fmt.Errorf("unmarshal asset: %w", err)
	}
	return d.toDomain()
}
