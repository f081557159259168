package assetdex

import "github.com/kailas-cloud/assetdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrAssetNotFound = domain.ErrAssetNotFound
	ErrHashRequired  = domain.ErrHashRequired
	ErrInvalidAsset  = domain.ErrInvalidAsset
	// ErrValidation matches every rejected query text.
	ErrValidation = domain.ErrValidation
)

// QueryValidationError carries the caller-facing message of a rejected query.
type QueryValidationError = domain.QueryValidationError
