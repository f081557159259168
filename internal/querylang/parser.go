// Package querylang parses the textual asset query language.
//
// A query is a URL-encoded option list in the style of OData:
//
//	$filter=<CEL expression>&$orderby=fileName asc,fileSize desc&$top=20&$skip=40&$search=logo
//
// $filter is compiled with google/cel-go against the asset field
// declarations and then lowered to a filter.Node tree.
package querylang

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
)

// Query options.
const (
	OptFilter  = "$filter"
	OptOrderBy = "$orderby"
	OptTop     = "$top"
	OptSkip    = "$skip"
	OptSearch  = "$search"
)

// MaxFilterLength is the maximum accepted $filter length.
const MaxFilterLength = 4096

// Parser turns query text into a query.Query. It is safe for concurrent use.
type Parser struct {
	env *cel.Env
}

// New creates a parser with the asset field declarations.
func New() (*Parser, error) {
	fields := field.All()
	opts := make([]cel.EnvOption, 0, len(fields))
	for _, f := range fields {
		opts = append(opts, cel.Variable(f.Name, celType(f.Kind)))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}
	return &Parser{env: env}, nil
}

// MustNew calls New and panics on error.
func MustNew() *Parser {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

func celType(k field.Kind) *cel.Type {
	switch k {
	case field.Int:
		return cel.IntType
	case field.Bool:
		return cel.BoolType
	case field.Timestamp:
		return cel.TimestampType
	case field.TagList:
		return cel.ListType(cel.StringType)
	default:
		return cel.StringType
	}
}

// Parse parses query text. The empty string yields a query with no filter,
// no sort and an Unbounded take. Errors are either *SyntaxError or wrap
// ErrNotSupported.
func (p *Parser) Parse(text string) (query.Query, error) {
	q := query.Query{Take: query.Unbounded}

	text = strings.TrimPrefix(strings.TrimSpace(text), "?")
	if text == "" {
		return q, nil
	}

	values, err := url.ParseQuery(text)
	if err != nil {
		return query.Query{}, syntaxErr("", "malformed query string: %v", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) > 1 {
			return query.Query{}, syntaxErr(key, "option given %d times", len(vals))
		}
		val := strings.TrimSpace(vals[0])

		switch key {
		case OptFilter:
			node, err := p.parseFilter(val)
			if err != nil {
				return query.Query{}, err
			}
			q.Filter = node
		case OptOrderBy:
			terms, err := parseOrderBy(val)
			if err != nil {
				return query.Query{}, err
			}
			q.Sort = terms
		case OptTop:
			n, err := parseCount(key, val)
			if err != nil {
				return query.Query{}, err
			}
			q.Take = n
		case OptSkip:
			n, err := parseCount(key, val)
			if err != nil {
				return query.Query{}, err
			}
			q.Skip = n
		case OptSearch:
			q.FullText = val
		default:
			return query.Query{}, notSupported("query option %q", key)
		}
	}

	return q, nil
}

func parseOrderBy(val string) ([]query.SortTerm, error) {
	if val == "" {
		return nil, syntaxErr(OptOrderBy, "empty sort expression")
	}
	parts := strings.Split(val, ",")
	terms := make([]query.SortTerm, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) == 0 || len(tokens) > 2 {
			return nil, syntaxErr(OptOrderBy, "expected \"<field> [asc|desc]\", got %q", strings.TrimSpace(part))
		}
		order := query.Ascending
		if len(tokens) == 2 {
			order = query.Order(strings.ToLower(tokens[1]))
		}
		term, err := query.NewSortTerm(tokens[0], order)
		if err != nil {
			return nil, syntaxErr(OptOrderBy, "%v", err)
		}
		if seen[term.Field] {
			return nil, syntaxErr(OptOrderBy, "field %q sorted twice", term.Field)
		}
		seen[term.Field] = true
		terms = append(terms, term)
	}
	return terms, nil
}

func parseCount(option, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, syntaxErr(option, "%q is not an integer", val)
	}
	if n < 0 {
		return 0, syntaxErr(option, "must not be negative, got %d", n)
	}
	return n, nil
}
