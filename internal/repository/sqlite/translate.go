package sqlite

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
)

var columns = map[string]string{
	field.ID:           "id",
	field.FileName:     "file_name",
	field.FileHash:     "file_hash",
	field.FileSize:     "file_size",
	field.FileVersion:  "file_version",
	field.MimeType:     "mime_type",
	field.Slug:         "slug",
	field.Tags:         "tags",
	field.IsImage:      "is_image",
	field.PixelWidth:   "pixel_width",
	field.PixelHeight:  "pixel_height",
	field.CreatedBy:    "created_by",
	field.Created:      "created",
	field.LastModified: "last_modified",
	field.Version:      "version",
}

var sqlOps = map[filter.Operator]string{
	filter.Eq: "=",
	filter.Ne: "<>",
	filter.Lt: "<",
	filter.Le: "<=",
	filter.Gt: ">",
	filter.Ge: ">=",
}

// where accumulates a WHERE clause and its arguments.
type where struct {
	b    strings.Builder
	args []any
}

// buildWhere renders the app scope, filter and full-text term as SQL.
func buildWhere(appID uuid.UUID, q *query.Query) (string, []any, error) {
	w := &where{}
	w.b.WriteString("app_id = ?")
	w.args = append(w.args, appID.String())

	if q.Filter != nil {
		w.b.WriteString(" AND ")
		if err := w.node(*q.Filter); err != nil {
			return "", nil, err
		}
	}

	for _, word := range strings.Fields(q.FullText) {
		w.b.WriteString(` AND file_name LIKE ? ESCAPE '\'`)
		w.args = append(w.args, "%"+likeEscaper.Replace(word)+"%")
	}

	return w.b.String(), w.args, nil
}

func (w *where) node(n filter.Node) error {
	switch n.Kind() {
	case filter.And, filter.Or:
		sep := " AND "
		if n.Kind() == filter.Or {
			sep = " OR "
		}
		w.b.WriteByte('(')
		for i, c := range n.Children() {
			if i > 0 {
				w.b.WriteString(sep)
			}
			if err := w.node(c); err != nil {
				return err
			}
		}
		w.b.WriteByte(')')
		return nil

	case filter.Not:
		w.b.WriteString("NOT (")
		if err := w.node(n.Children()[0]); err != nil {
			return err
		}
		w.b.WriteByte(')')
		return nil

	case filter.Compare:
		return w.compare(n)
	}
	return fmt.Errorf("unknown filter node kind %d", n.Kind())
}

func (w *where) compare(n filter.Node) error {
	col, ok := columns[n.Field()]
	if !ok {
		return fmt.Errorf("unknown field %q", n.Field())
	}
	values := n.Values()

	if n.Field() == field.Tags {
		return w.tagMembership(n.Op(), values)
	}

	switch op := n.Op(); op {
	case filter.In:
		w.b.WriteString(col + " IN (" + placeholders(len(values)) + ")")
		for _, v := range values {
			w.args = append(w.args, sqlValue(v))
		}
	case filter.StartsWith:
		w.b.WriteString(col + " GLOB ?")
		w.args = append(w.args, globEscaper.Replace(values[0].Str())+"*")
	case filter.EndsWith:
		w.b.WriteString(col + " GLOB ?")
		w.args = append(w.args, "*"+globEscaper.Replace(values[0].Str()))
	case filter.Contains:
		w.b.WriteString(col + " GLOB ?")
		w.args = append(w.args, "*"+globEscaper.Replace(values[0].Str())+"*")
	default:
		sqlOp, ok := sqlOps[op]
		if !ok {
			return fmt.Errorf("unknown operator %q", op)
		}
		w.b.WriteString(col + " " + sqlOp + " ?")
		w.args = append(w.args, sqlValue(values[0]))
	}
	return nil
}

// tagMembership matches elements of the JSON tags array.
func (w *where) tagMembership(op filter.Operator, values []filter.Value) error {
	switch op {
	case filter.Eq, filter.In:
		w.b.WriteString("EXISTS (SELECT 1 FROM json_each(assets.tags) WHERE json_each.value IN (" + placeholders(len(values)) + "))")
	case filter.Ne:
		w.b.WriteString("NOT EXISTS (SELECT 1 FROM json_each(assets.tags) WHERE json_each.value = ?)")
	default:
		return fmt.Errorf("operator %s on tags", op)
	}
	for _, v := range values {
		w.args = append(w.args, v.Str())
	}
	return nil
}

func sqlValue(v filter.Value) any {
	switch v.Kind() {
	case field.Int:
		return v.Int64()
	case field.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case field.Timestamp:
		return v.Time().UnixMilli()
	default:
		return v.Str()
	}
}

// orderBy renders every sort term; id breaks ties so paging is stable.
func orderBy(terms []query.SortTerm) string {
	parts := make([]string, 0, len(terms)+1)
	for _, t := range terms {
		col, ok := columns[t.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if t.Order == query.Descending {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

var globEscaper = strings.NewReplacer(
	"[", "[[]",
	"*", "[*]",
	"?", "[?]",
)

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	"%", `\%`,
	"_", `\_`,
)
