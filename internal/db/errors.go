package db

import "errors"

// Driver-neutral outcomes repositories branch on. Anything else arrives as
// *Error.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrIndexBuilding = errors.New("db: index is still building")
)

// Redis commands named in *Error.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpHGet        = "HGET"
	OpHGetAll     = "HGETALL"
	OpHSetNX      = "HSETNX"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
)

// Error is a failed storage command. errors.Is sees through it to the
// transport or server error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "db " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
