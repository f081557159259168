package assetquery

// Default paging limits.
const (
	DefaultPageSize      = 20
	DefaultMaxResults    = 200
	DefaultPageSizeGraph = 20
)

// Options holds the paging limits applied to textual queries.
type Options struct {
	// DefaultPageSize replaces an unbounded take.
	DefaultPageSize int
	// MaxResults caps any explicit take.
	MaxResults int
	// DefaultPageSizeGraph is the default take of the compact listing.
	DefaultPageSizeGraph int
}

// DefaultOptions returns the stock paging limits.
func DefaultOptions() Options {
	return Options{
		DefaultPageSize:      DefaultPageSize,
		MaxResults:           DefaultMaxResults,
		DefaultPageSizeGraph: DefaultPageSizeGraph,
	}
}

// normalized fills non-positive values with defaults and keeps the default
// page sizes within MaxResults.
func (o Options) normalized() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = DefaultPageSize
	}
	if o.DefaultPageSizeGraph <= 0 {
		o.DefaultPageSizeGraph = DefaultPageSizeGraph
	}
	o.DefaultPageSize = min(o.DefaultPageSize, o.MaxResults)
	o.DefaultPageSizeGraph = min(o.DefaultPageSizeGraph, o.MaxResults)
	return o
}
