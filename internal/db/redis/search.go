package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/assetdex/internal/db"
)

// Search pages through an index returning whole JSON documents. Zero or one
// sort key runs as a single FT.SEARCH. FT.SEARCH takes one SORTBY, so more
// keys run as FT.AGGREGATE (page) pipelined with a counting FT.SEARCH (total).
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if err := validateSearch(q); err != nil {
		return nil, err
	}
	if len(q.Sort) <= 1 || q.Limit == 0 {
		return s.search(ctx, q)
	}
	return s.aggregate(ctx, q)
}

func validateSearch(q *db.SearchQuery) error {
	switch {
	case q.Index == "":
		return errors.New("index name is required")
	case q.Query == "":
		return errors.New("query is required")
	case q.Offset < 0 || q.Limit < 0:
		return errors.New("offset and limit must not be negative")
	}
	for _, k := range q.Sort {
		if k.Field == "" {
			return errors.New("sort field is required")
		}
	}
	return nil
}

func (s *Store) search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	raw, err := s.do(ctx, s.b().Arbitrary("FT.SEARCH").Args(buildSearchArgs(q)...).Build()).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseDocs(raw)
}

func (s *Store) aggregate(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	count := &db.SearchQuery{Index: q.Index, Query: q.Query}
	results := s.client.DoMulti(ctx,
		s.b().Arbitrary("FT.SEARCH").Args(buildSearchArgs(count)...).Build(),
		s.b().Arbitrary("FT.AGGREGATE").Args(buildAggregateArgs(q)...).Build(),
	)

	total, err := results[0].ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	counted, err := parseDocs(total)
	if err != nil {
		return nil, err
	}

	rows, err := results[1].ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	res := &db.SearchResult{Total: counted.Total}
	// rows[0] is the aggregate's own count; each further row is ["$", json]
	for i := 1; i < len(rows); i++ {
		if doc := documentField(rows[i]); doc != "" {
			res.Docs = append(res.Docs, db.Doc{JSON: []byte(doc)})
		}
	}
	return res, nil
}

// buildSearchArgs applies at most the first sort key.
func buildSearchArgs(q *db.SearchQuery) []string {
	args := []string{q.Index, q.Query, "RETURN", "1", "$"}
	if len(q.Sort) > 0 {
		args = append(args, "SORTBY", q.Sort[0].Field, direction(q.Sort[0]))
	}
	return append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
}

// buildAggregateArgs sorts by every key. Sort fields must be SORTABLE in the
// index since only $ is loaded.
func buildAggregateArgs(q *db.SearchQuery) []string {
	args := []string{q.Index, q.Query, "LOAD", "1", "$", "SORTBY", strconv.Itoa(2 * len(q.Sort))}
	for _, k := range q.Sort {
		args = append(args, "@"+k.Field, direction(k))
	}
	return append(args,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"DIALECT", "2",
	)
}

func direction(k db.SortKey) string {
	if k.Desc {
		return "DESC"
	}
	return "ASC"
}

// parseDocs reads [total, key1, ["$", json1], key2, ...]. Hits whose document
// vanished between match and load carry no fields and are skipped.
func parseDocs(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	res := &db.SearchResult{Total: total, Docs: make([]db.Doc, 0, (len(raw)-1)/2)}
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		doc := documentField(raw[i+1])
		if doc == "" {
			continue
		}
		res.Docs = append(res.Docs, db.Doc{Key: key, JSON: []byte(doc)})
	}
	return res, nil
}

func documentField(msg rueidis.RedisMessage) string {
	fields, err := msg.ToArray()
	if err != nil {
		return ""
	}
	for j := 0; j+1 < len(fields); j += 2 {
		if name, _ := fields[j].ToString(); name == "$" {
			v, _ := fields[j+1].ToString()
			return v
		}
	}
	return ""
}
