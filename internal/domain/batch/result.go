package batch

import "github.com/google/uuid"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a batch operation.
type Result struct {
	id      uuid.UUID
	status  ItemStatus
	created bool
	err     error
}

// NewOK creates a successful batch result. created reports whether the item
// was new.
func NewOK(id uuid.UUID, created bool) Result {
	return Result{id: id, status: StatusOK, created: created}
}

// NewError creates a failed batch result.
func NewError(id uuid.UUID, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() uuid.UUID { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Created reports whether a successful item was created rather than replaced.
func (r Result) Created() bool { return r.created }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count returns the number of succeeded and failed results.
func Count(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
