package chi

import (
	"time"

	"github.com/google/uuid"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeAssetNotFound    ErrorResponseCode = "asset_not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// AssetResponse is the full representation of an enriched asset.
type AssetResponse struct {
	ID           uuid.UUID `json:"id"`
	AppID        uuid.UUID `json:"appId"`
	FileName     string    `json:"fileName"`
	FileHash     string    `json:"fileHash"`
	FileType     string    `json:"fileType"`
	MimeType     string    `json:"mimeType"`
	FileSize     int64     `json:"fileSize"`
	FileVersion  int64     `json:"fileVersion"`
	Slug         string    `json:"slug"`
	Tags         []string  `json:"tags"`
	IsImage      bool      `json:"isImage"`
	PixelWidth   *int      `json:"pixelWidth,omitempty"`
	PixelHeight  *int      `json:"pixelHeight,omitempty"`
	CreatedBy    string    `json:"createdBy"`
	Created      time.Time `json:"created"`
	LastModified time.Time `json:"lastModified"`
	Version      int64     `json:"version"`
	ContentURL   string    `json:"contentUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

// CompactAsset is the reduced representation used by the compact listing.
type CompactAsset struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType"`
	MimeType     string    `json:"mimeType"`
	ContentURL   string    `json:"contentUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Version      int64     `json:"version"`
}

// AssetListResponse is one page of assets.
type AssetListResponse[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// UpsertAssetRequest is the body of PUT /apps/{app}/assets/{id}.
type UpsertAssetRequest struct {
	FileName    string   `json:"fileName" validate:"required,max=512"`
	FileHash    string   `json:"fileHash" validate:"max=256"`
	MimeType    string   `json:"mimeType" validate:"required,max=256"`
	FileSize    int64    `json:"fileSize" validate:"min=0"`
	Slug        string   `json:"slug" validate:"max=256"`
	Tags        []string `json:"tags" validate:"max=64,dive,required,max=128"`
	PixelWidth  int      `json:"pixelWidth" validate:"min=0"`
	PixelHeight int      `json:"pixelHeight" validate:"min=0"`
	CreatedBy   string   `json:"createdBy" validate:"max=256"`
}

// BatchUpsertItem is one asset of a batch upsert.
type BatchUpsertItem struct {
	ID uuid.UUID `json:"id" validate:"required"`
	UpsertAssetRequest
}

// BatchUpsertRequest is the body of POST /apps/{app}/assets/batch.
type BatchUpsertRequest struct {
	Items []BatchUpsertItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// BatchResultItemStatus is the outcome of one batch item.
type BatchResultItemStatus string

// BatchResultItemStatus values.
const (
	BatchResultItemStatusOk    BatchResultItemStatus = "ok"
	BatchResultItemStatusError BatchResultItemStatus = "error"
)

// BatchResultItem reports one item of a batch upsert.
type BatchResultItem struct {
	ID      uuid.UUID             `json:"id"`
	Status  BatchResultItemStatus `json:"status"`
	Created bool                  `json:"created,omitempty"`
	Error   *ErrorResponse        `json:"error,omitempty"`
}

// BatchUpsertResponse is the body returned by a batch upsert.
type BatchUpsertResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ListAssetsParams are the recognised query parameters of the listing routes.
// Raw $-prefixed options are read from the query string directly.
type ListAssetsParams struct {
	// Ids selects the id path; comma separated.
	Ids *[]string `form:"ids,omitempty" json:"ids,omitempty"`
	// Q carries a complete URL-encoded query.
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}
