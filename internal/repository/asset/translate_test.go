package asset

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
)

func cmp(t *testing.T, name string, op filter.Operator, values ...filter.Value) filter.Node {
	t.Helper()
	n, err := filter.NewCompare(name, op, values...)
	if err != nil {
		t.Fatalf("NewCompare: %v", err)
	}
	return n
}

func group(t *testing.T, fn func(...filter.Node) (filter.Node, error), children ...filter.Node) filter.Node {
	t.Helper()
	n, err := fn(children...)
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	return n
}

func TestTranslate(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		node filter.Node
		want string
	}{
		{"tag eq", cmp(t, "slug", filter.Eq, filter.String("logo")), `@slug:{logo}`},
		{"tag ne", cmp(t, "slug", filter.Ne, filter.String("logo")), `-@slug:{logo}`},
		{"escaped", cmp(t, "fileName", filter.Eq, filter.String("a b.png")), `@fileName:{a\ b\.png}`},
		{"in", cmp(t, "mimeType", filter.In, filter.String("image/png"), filter.String("image/gif")),
			`@mimeType:{image\/png | image\/gif}`},
		{"prefix", cmp(t, "fileName", filter.StartsWith, filter.String("IMG_")), `@fileName:{IMG_*}`},
		{"suffix", cmp(t, "fileName", filter.EndsWith, filter.String(".pdf")), `@fileName:{*\.pdf}`},
		{"infix", cmp(t, "fileName", filter.Contains, filter.String("draft")), `@fileName:{*draft*}`},
		{"tags", cmp(t, "tags", filter.Eq, filter.String("t1")), `@tags:{t1}`},
		{"bool", cmp(t, "isImage", filter.Eq, filter.Bool(true)), `@isImage:{true}`},
		{"bool ne", cmp(t, "isImage", filter.Ne, filter.Bool(true)), `-@isImage:{true}`},
		{"num eq", cmp(t, "fileSize", filter.Eq, filter.Int(5)), `@fileSize:[5 5]`},
		{"num ne", cmp(t, "fileSize", filter.Ne, filter.Int(5)), `-@fileSize:[5 5]`},
		{"num lt", cmp(t, "fileSize", filter.Lt, filter.Int(5)), `@fileSize:[-inf (5]`},
		{"num le", cmp(t, "fileSize", filter.Le, filter.Int(5)), `@fileSize:[-inf 5]`},
		{"num gt", cmp(t, "fileSize", filter.Gt, filter.Int(5)), `@fileSize:[(5 +inf]`},
		{"num ge", cmp(t, "fileSize", filter.Ge, filter.Int(5)), `@fileSize:[5 +inf]`},
		{"num in", cmp(t, "version", filter.In, filter.Int(1), filter.Int(2)), `(@version:[1 1] | @version:[2 2])`},
		{"timestamp", cmp(t, "created", filter.Ge, filter.Time(ts)), `@created:[1704067200000 +inf]`},
		{"and", group(t, filter.NewAnd,
			cmp(t, "isImage", filter.Eq, filter.Bool(true)),
			cmp(t, "pixelWidth", filter.Gt, filter.Int(10))),
			`(@isImage:{true} @pixelWidth:[(10 +inf])`},
		{"or", group(t, filter.NewOr,
			cmp(t, "slug", filter.Eq, filter.String("a")),
			cmp(t, "slug", filter.Eq, filter.String("b"))),
			`(@slug:{a} | @slug:{b})`},
		{"not", filter.NewNot(cmp(t, "tags", filter.Eq, filter.String("t1"))), `-(@tags:{t1})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translate(tt.node)
			if err != nil {
				t.Fatalf("translate: %v", err)
			}
			if got != tt.want {
				t.Errorf("translate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTranslate_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		node filter.Node
	}{
		{"string ordering", cmp(t, "fileName", filter.Gt, filter.String("m"))},
		{"empty string", cmp(t, "slug", filter.Eq, filter.String(""))},
		{"nested", group(t, filter.NewAnd,
			cmp(t, "isImage", filter.Eq, filter.Bool(true)),
			cmp(t, "mimeType", filter.Le, filter.String("image/")))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translate(tt.node)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	n := cmp(t, "slug", filter.Eq, filter.String("logo"))
	got, err := buildQuery(testApp, &query.Query{Filter: &n, FullText: "summer sale"})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	want := `@appId:{6f1c1c3e\-4a0b\-4d59\-9d7c\-1c2d3e4f5a6b} @slug:{logo} @fileNameText:(summer sale)`
	if got != want {
		t.Errorf("buildQuery =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildQuery_ScopeOnly(t *testing.T) {
	got, err := buildQuery(testApp, &query.Query{FullText: "  "})
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if got != `@appId:{6f1c1c3e\-4a0b\-4d59\-9d7c\-1c2d3e4f5a6b}` {
		t.Errorf("buildQuery = %s", got)
	}
}

func TestBuildIndex(t *testing.T) {
	def := buildIndex()
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	sortable := map[string]bool{}
	for _, f := range def.Fields {
		if f.Sortable {
			sortable[f.Alias] = true
		}
	}
	for _, name := range []string{"id", "fileName", "fileSize", "lastModified", "created", "version", "mimeType", "slug"} {
		if !sortable[name] {
			t.Errorf("field %s is not sortable", name)
		}
	}
}
