package assetquery

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
	"github.com/kailas-cloud/assetdex/internal/domain/tag"
	"github.com/kailas-cloud/assetdex/internal/querylang"
)

// Normalize parses query text and applies tenant and paging policy: tag names
// become tag ids, an empty sort becomes lastModified desc, and the take is
// bounded by the configured page sizes.
//
// Grammar failures are returned as *domain.QueryValidationError. Tag store
// failures are returned wrapped.
func (s *Service) Normalize(ctx context.Context, scope query.Scope, text string) (query.Query, error) {
	q, err := s.parser.Parse(text)
	if err != nil {
		return query.Query{}, validationError(err)
	}

	if q.Filter != nil && referencesTags(*q.Filter) {
		tags, err := s.tags.Tags(ctx, scope.AppID)
		if err != nil {
			return query.Query{}, fmt.Errorf("resolve tags: %w", err)
		}
		rewritten := tagNamesToIDs(*q.Filter, tags)
		q.Filter = &rewritten
	}

	if len(q.Sort) == 0 {
		q.Sort = []query.SortTerm{query.DefaultSort()}
	}

	switch {
	case q.Take == query.Unbounded:
		q.Take = s.opts.DefaultPageSize
	case q.Take > s.opts.MaxResults:
		q.Take = s.opts.MaxResults
	}

	return q, nil
}

func validationError(err error) error {
	var unsupported *querylang.UnsupportedError
	if errors.As(err, &unsupported) {
		return domain.NewUnsupportedQuery(unsupported.What, err)
	}
	if errors.Is(err, querylang.ErrNotSupported) {
		return domain.NewQueryValidation("Query operation is not supported.", err)
	}
	return domain.NewQueryValidation("Failed to parse query: "+err.Error(), err)
}

func referencesTags(n filter.Node) bool {
	found := false
	filter.Walk(n, func(c filter.Node) bool {
		if c.Kind() == filter.Compare && c.Field() == field.Tags {
			found = true
			return false
		}
		return true
	})
	return found
}

// tagNamesToIDs rewrites tag comparisons; names without an id stay as they are
// and match nothing in storage.
func tagNamesToIDs(n filter.Node, tags tag.Set) filter.Node {
	return filter.Rewrite(n, func(c filter.Node) filter.Node {
		if c.Field() != field.Tags {
			return c
		}
		values := c.Values()
		out := make([]filter.Value, len(values))
		for i, v := range values {
			if id, ok := tags.IDByName(v.Str()); ok {
				out[i] = filter.String(id)
			} else {
				out[i] = v
			}
		}
		return c.WithValues(out)
	})
}
