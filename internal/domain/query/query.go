package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
)

// Unbounded is the grammar's marker for "no explicit $top".
const Unbounded = math.MaxInt

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// SortTerm orders results by one field.
type SortTerm struct {
	Field string
	Order Order
}

// NewSortTerm validates a sort term against the sortable asset fields.
func NewSortTerm(name string, order Order) (SortTerm, error) {
	f, ok := field.Lookup(name)
	if !ok {
		return SortTerm{}, fmt.Errorf("unknown sort field %q", name)
	}
	if !f.Sortable {
		return SortTerm{}, fmt.Errorf("field %q is not sortable", name)
	}
	if order == "" {
		order = Ascending
	}
	if order != Ascending && order != Descending {
		return SortTerm{}, fmt.Errorf("invalid sort order %q", order)
	}
	return SortTerm{Field: name, Order: order}, nil
}

// DefaultSort is applied when a query names no sort term.
func DefaultSort() SortTerm {
	return SortTerm{Field: field.LastModified, Order: Descending}
}

func (t SortTerm) String() string {
	return t.Field + " " + string(t.Order)
}

// Query is the structured, executable form of a textual asset query.
type Query struct {
	Filter   *filter.Node
	Sort     []SortTerm
	Take     int
	Skip     int
	FullText string
}

// HasFilter reports whether the query carries a filter tree.
func (q *Query) HasFilter() bool { return q.Filter != nil }

func (q *Query) String() string {
	parts := make([]string, 0, 5)
	if q.Filter != nil {
		parts = append(parts, "filter="+q.Filter.String())
	}
	if q.FullText != "" {
		parts = append(parts, "search="+q.FullText)
	}
	if len(q.Sort) > 0 {
		terms := make([]string, len(q.Sort))
		for i, t := range q.Sort {
			terms[i] = t.String()
		}
		parts = append(parts, "sort="+strings.Join(terms, ","))
	}
	if q.Take == Unbounded {
		parts = append(parts, "take=unbounded")
	} else {
		parts = append(parts, fmt.Sprintf("take=%d", q.Take))
	}
	parts = append(parts, fmt.Sprintf("skip=%d", q.Skip))
	return strings.Join(parts, " ")
}

// Scope carries the tenant a query runs in.
type Scope struct {
	AppID uuid.UUID
}
