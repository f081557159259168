package domain

import "errors"

var (
	// ErrValidation signals a query or payload that cannot be accepted as given.
	ErrValidation = errors.New("validation failed")
	// ErrAssetNotFound signals a missing asset.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrHashRequired signals a hash lookup without a hash.
	ErrHashRequired = errors.New("hash is required")
	// ErrInvalidAsset signals an asset draft that violates field constraints.
	ErrInvalidAsset = errors.New("invalid asset")
)

// QueryValidationError is returned when a textual query cannot be turned into
// an executable query. Malformed syntax and unsupported operations share this
// single kind; only the message tells them apart. Message is shown to API
// callers as is.
type QueryValidationError struct {
	Message string
	Err     error
}

func (e *QueryValidationError) Error() string { return e.Message }

// Unwrap lets errors.Is match both ErrValidation and the parser cause.
func (e *QueryValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// NewQueryValidation creates a query validation error.
func NewQueryValidation(message string, cause error) error {
	return &QueryValidationError{Message: message, Err: cause}
}

// NewUnsupportedQuery reports a well-formed query asking for an operation the
// grammar or the storage backend cannot execute.
func NewUnsupportedQuery(what string, cause error) error {
	return NewQueryValidation("Query operation is not supported: "+what+".", cause)
}
