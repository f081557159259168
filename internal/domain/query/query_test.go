package query

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewSortTerm(t *testing.T) {
	term, err := NewSortTerm("fileName", "")
	if err != nil {
		t.Fatalf("NewSortTerm: %v", err)
	}
	if term.Order != Ascending {
		t.Errorf("Order = %q, want asc", term.Order)
	}

	for _, tt := range []struct {
		field string
		order Order
	}{
		{"nope", Ascending},
		{"tags", Ascending},
		{"fileName", Order("up")},
	} {
		if _, err := NewSortTerm(tt.field, tt.order); err == nil {
			t.Errorf("NewSortTerm(%q, %q): expected error", tt.field, tt.order)
		}
	}
}

func TestDefaultSort(t *testing.T) {
	if got := DefaultSort().String(); got != "lastModified desc" {
		t.Errorf("DefaultSort = %q", got)
	}
}

func TestQueryString(t *testing.T) {
	q := Query{Take: Unbounded, Sort: []SortTerm{DefaultSort()}, FullText: "logo"}
	if got, want := q.String(), "search=logo sort=lastModified desc take=unbounded skip=0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRequest(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	in := []uuid.UUID{a, b}
	r := ByIDs(in...)
	in[0] = uuid.Nil

	if r.Kind() != KindIDs {
		t.Errorf("Kind = %v, want KindIDs", r.Kind())
	}
	if r.IDs()[0] != a {
		t.Error("ByIDs must copy its input")
	}

	if got := ByIDs(); got.Kind() != KindIDs || len(got.IDs()) != 0 {
		t.Errorf("ByIDs() = %+v", got)
	}

	txt := ByText("$top=1")
	if txt.Kind() != KindText || txt.Text() != "$top=1" {
		t.Errorf("ByText = %+v", txt)
	}
}

func TestPage(t *testing.T) {
	p := NewPage[int](3, nil)
	if p.Items == nil || p.Total != 3 {
		t.Errorf("NewPage = %+v", p)
	}
	e := Empty[string]()
	if e.Items == nil || e.Total != 0 {
		t.Errorf("Empty = %+v", e)
	}
}
