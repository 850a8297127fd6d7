package table

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

type row struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Score  int      `json:"score"`
	Labels []string `json:"-"`
	At     time.Time
}

func testColumns() []Column[row] {
	return []Column[row]{
		{Key: "name", Header: "Name", Sortable: true, Filter: FilterText},
		{Key: "score", Header: "Score", Sortable: true, Filter: FilterOption},
		{
			Key: "labels", Header: "Labels", Filter: FilterArrayContains,
			Labels: func(r row) []string { return r.Labels },
		},
		{Key: "at", Header: "At", Sortable: true, Value: func(r row) any { return r.At }},
	}
}

func names(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestCycleSortTriState(t *testing.T) {
	rows := []row{{Name: "bravo"}, {Name: "alpha"}, {Name: "Charlie"}}
	m := New(testColumns(), rows)

	m.CycleSort("name")
	if got := names(m.FilteredRows()); !reflect.DeepEqual(got, []string{"alpha", "bravo", "Charlie"}) {
		t.Fatalf("asc sort got %v", got)
	}

	m.CycleSort("name")
	if got := names(m.FilteredRows()); !reflect.DeepEqual(got, []string{"Charlie", "bravo", "alpha"}) {
		t.Fatalf("desc sort got %v", got)
	}

	m.CycleSort("name")
	if got := names(m.FilteredRows()); !reflect.DeepEqual(got, []string{"bravo", "alpha", "Charlie"}) {
		t.Fatalf("cleared sort should restore input order, got %v", got)
	}
	if key, dir := m.SortState(); key != "" || dir != SortNone {
		t.Fatalf("sort state not cleared: %q %v", key, dir)
	}
}

func TestCycleSortNewColumnStartsAscending(t *testing.T) {
	rows := []row{{Name: "b", Score: 1}, {Name: "a", Score: 2}}
	m := New(testColumns(), rows)

	m.CycleSort("name")
	m.CycleSort("name") // name desc
	m.CycleSort("score")
	if key, dir := m.SortState(); key != "score" || dir != SortAsc {
		t.Fatalf("expected score asc, got %q %v", key, dir)
	}
}

func TestArrayContainsFilter(t *testing.T) {
	rows := []row{
		{Name: "r1", Labels: []string{"A"}},
		{Name: "r2", Labels: nil},
		{Name: "r3", Labels: []string{"B", "A"}},
	}
	m := New(testColumns(), rows)
	m.SetFilter("labels", "A")
	if got := names(m.FilteredRows()); !reflect.DeepEqual(got, []string{"r1", "r3"}) {
		t.Fatalf("array contains filter got %v", got)
	}
	m.SetFilter("labels", "")
	if got := len(m.FilteredRows()); got != 3 {
		t.Fatalf("cleared filter should pass all rows, got %d", got)
	}
}

func TestStatusFilter(t *testing.T) {
	rows := []row{{Name: "open", Score: 0}, {Name: "done", Score: 1}}
	m := New(testColumns(), rows, WithStatus[row](func(r row) string {
		if r.Score > 0 {
			return "done"
		}
		return "open"
	}))

	m.SetFilter("status", "done")
	// "status" is not a column here; it must not match anything.
	if got := len(m.FilteredRows()); got != 2 {
		t.Fatalf("unknown filter key should be ignored, got %d rows", got)
	}

	cols := append(testColumns(), Column[row]{Key: "status", Header: "Status", Filter: FilterStatus})
	m = New(cols, rows, WithStatus[row](func(r row) string {
		if r.Score > 0 {
			return "done"
		}
		return "open"
	}))
	m.SetFilter("status", "done")
	if got := names(m.FilteredRows()); !reflect.DeepEqual(got, []string{"done"}) {
		t.Fatalf("status filter got %v", got)
	}
}

func TestFreeTextFilterResetsPage(t *testing.T) {
	var rows []row
	for i := 0; i < 25; i++ {
		rows = append(rows, row{ID: fmt.Sprintf("id-%02d", i), Name: fmt.Sprintf("row %02d", i)})
	}
	m := New(testColumns(), rows, WithRowID[row](func(r row) string { return r.ID }))

	m.NextPage()
	if m.PageIndex() != 1 {
		t.Fatalf("expected page 1, got %d", m.PageIndex())
	}
	m.SetTextFilter("name", "row 1")
	if m.PageIndex() != 0 {
		t.Fatalf("filter change must reset to first page, got %d", m.PageIndex())
	}
	if got := len(m.FilteredRows()); got != 10 {
		t.Fatalf("expected 10 matches for 'row 1', got %d", got)
	}
}

func TestPagination(t *testing.T) {
	var rows []row
	for i := 0; i < 25; i++ {
		rows = append(rows, row{ID: fmt.Sprintf("id-%02d", i), Name: fmt.Sprintf("row %02d", i)})
	}
	m := New(testColumns(), rows)

	if m.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", m.PageCount())
	}
	if got := len(m.Page()); got != DefaultPageSize {
		t.Fatalf("first page size %d", got)
	}
	m.NextPage()
	m.NextPage()
	if got := len(m.Page()); got != 5 {
		t.Fatalf("last page size %d", got)
	}
	m.NextPage()
	if m.PageIndex() != 2 {
		t.Fatalf("next past last page must stay, got %d", m.PageIndex())
	}
}

func TestSelectAllOnPageScopesToVisibleRows(t *testing.T) {
	var rows []row
	for i := 0; i < 25; i++ {
		r := row{ID: fmt.Sprintf("id-%02d", i), Name: fmt.Sprintf("row %02d", i)}
		if i < 5 {
			r.Labels = []string{"keep"}
		}
		rows = append(rows, r)
	}
	m := New(testColumns(), rows, WithRowID[row](func(r row) string { return r.ID }))

	m.SetFilter("labels", "keep")
	m.SelectAllOnPage()
	if got := len(m.SelectedIDs()); got != 5 {
		t.Fatalf("select-all must only cover the filtered page, got %d selected", got)
	}

	// Toggling again with everything on the page selected deselects it.
	m.SelectAllOnPage()
	if got := len(m.SelectedIDs()); got != 0 {
		t.Fatalf("second toggle should clear the page, got %d selected", got)
	}

	m.SetFilter("labels", "")
	m.SelectAllOnPage()
	m.NextPage()
	m.SelectAllOnPage()
	if got := len(m.SelectedIDs()); got != 20 {
		t.Fatalf("two pages selected should be 20 rows, got %d", got)
	}
}

func TestToggleSelect(t *testing.T) {
	rows := []row{{ID: "a"}, {ID: "b"}}
	m := New(testColumns(), rows, WithRowID[row](func(r row) string { return r.ID }))

	m.ToggleSelect("a")
	m.ToggleSelect("b")
	m.ToggleSelect("a")
	if got := m.SelectedIDs(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("selection got %v", got)
	}
	m.ClearSelection()
	if got := len(m.SelectedIDs()); got != 0 {
		t.Fatalf("clear selection left %d", got)
	}
}

func TestResolveDottedPath(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
	}
	type outer struct {
		Link *inner         `json:"link"`
		Meta map[string]any `json:"meta"`
	}

	cases := []struct {
		path string
		want any
	}{
		{"link.name", "hello"},
		{"meta.kind", "x"},
		{"link.missing", nil},
		{"absent.name", nil},
	}
	rec := outer{Link: &inner{Name: "hello"}, Meta: map[string]any{"kind": "x"}}
	for _, tc := range cases {
		if got := Resolve(rec, tc.path); got != tc.want {
			t.Fatalf("Resolve(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
	if got := Resolve(outer{}, "link.name"); got != nil {
		t.Fatalf("nil pointer path should resolve to nil, got %v", got)
	}
}

func TestCompareValues(t *testing.T) {
	now := time.Now()
	cases := []struct {
		a, b any
		want int
	}{
		{1, 2, -1},
		{int64(5), 5.0, 0},
		{"b", "A", 1},
		{nil, "x", -1},
		{now, now.Add(time.Hour), -1},
	}
	for i, tc := range cases {
		if got := compareValues(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: compareValues(%v, %v) = %d, want %d", i, tc.a, tc.b, got, tc.want)
		}
	}
}
