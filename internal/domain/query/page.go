package query

// Page is one ordered slice of a result set plus the size of the whole set.
type Page[T any] struct {
	Total int64
	Items []T
}

// NewPage creates a page.
func NewPage[T any](total int64, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Total: total, Items: items}
}

// Empty returns a page with no items and a zero total.
func Empty[T any]() Page[T] {
	return Page[T]{Items: []T{}}
}
