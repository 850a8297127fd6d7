// Package table is the entity-agnostic tabular core shared by every list
// surface: per-column tri-state sort, per-column and free-text filters,
// fixed-size pagination, and page-scoped row selection. A model never mutates
// the rows it is given; every view is recomputed from (rows, columns, sort,
// filters, page).
package table

import (
	"sort"
	"strings"
	"time"
)

const DefaultPageSize = 10

type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

type FilterKind int

const (
	// FilterNone marks a column that cannot be filtered.
	FilterNone FilterKind = iota
	// FilterText matches case-insensitive substrings of the resolved value.
	FilterText
	// FilterOption matches the resolved value against a fixed option exactly.
	FilterOption
	// FilterArrayContains matches when any label in the column's association
	// list equals the filter value.
	FilterArrayContains
	// FilterStatus matches the model's derived status classification.
	FilterStatus
)

// Column describes one table column: where its value comes from and what the
// table is allowed to do with it.
type Column[T any] struct {
	Key      string // dotted accessor path, also the filter key
	Header   string
	Sortable bool
	Filter   FilterKind

	// Value overrides accessor resolution when set.
	Value func(T) any
	// Labels supplies the association label list for FilterArrayContains.
	Labels func(T) []string
}

func (c Column[T]) resolve(row T) any {
	if c.Value != nil {
		return c.Value(row)
	}
	return Resolve(row, c.Key)
}

// Model holds the presentation state for one list of homogeneous records.
type Model[T any] struct {
	columns  []Column[T]
	rows     []T
	rowID    func(T) string
	statusOf func(T) string

	pageSize int
	page     int

	sortKey string
	sortDir SortDirection

	filters     map[string]string
	textFilters map[string]string // free-text accessor -> query

	selected map[string]struct{}
}

type Option[T any] func(*Model[T])

// WithRowID enables selection; rows without an ID cannot be selected.
func WithRowID[T any](fn func(T) string) Option[T] {
	return func(m *Model[T]) { m.rowID = fn }
}

// WithStatus supplies the derived classification used by FilterStatus columns.
func WithStatus[T any](fn func(T) string) Option[T] {
	return func(m *Model[T]) { m.statusOf = fn }
}

func WithPageSize[T any](n int) Option[T] {
	return func(m *Model[T]) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

func New[T any](columns []Column[T], rows []T, opts ...Option[T]) *Model[T] {
	m := &Model[T]{
		columns:     columns,
		rows:        rows,
		pageSize:    DefaultPageSize,
		filters:     map[string]string{},
		textFilters: map[string]string{},
		selected:    map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model[T]) SetRows(rows []T) {
	m.rows = rows
	m.page = 0
}

// CycleSort advances the named column through asc -> desc -> cleared.
// Sorting a different column starts over at ascending.
func (m *Model[T]) CycleSort(key string) {
	col := m.column(key)
	if col == nil || !col.Sortable {
		return
	}
	if m.sortKey != key {
		m.sortKey = key
		m.sortDir = SortAsc
		return
	}
	switch m.sortDir {
	case SortAsc:
		m.sortDir = SortDesc
	case SortDesc:
		m.sortKey = ""
		m.sortDir = SortNone
	default:
		m.sortDir = SortAsc
	}
}

func (m *Model[T]) SortState() (string, SortDirection) {
	return m.sortKey, m.sortDir
}

// SetFilter sets a per-column filter. An empty value clears it. Any filter
// change resets pagination to the first page.
func (m *Model[T]) SetFilter(key, value string) {
	if value == "" {
		delete(m.filters, key)
	} else {
		m.filters[key] = value
	}
	m.page = 0
}

// SetTextFilter sets one of the free-text filters by accessor name.
func (m *Model[T]) SetTextFilter(accessor, query string) {
	if query == "" {
		delete(m.textFilters, accessor)
	} else {
		m.textFilters[accessor] = query
	}
	m.page = 0
}

// FilteredRows is the filtered and sorted row set before pagination. Exports
// operate on exactly this view.
func (m *Model[T]) FilteredRows() []T {
	out := make([]T, 0, len(m.rows))
	for _, row := range m.rows {
		if m.matches(row) {
			out = append(out, row)
		}
	}
	m.applySort(out)
	return out
}

// Page returns the rows visible on the current page.
func (m *Model[T]) Page() []T {
	rows := m.FilteredRows()
	start := m.page * m.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + m.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func (m *Model[T]) PageIndex() int {
	return m.page
}

func (m *Model[T]) PageCount() int {
	n := len(m.FilteredRows())
	if n == 0 {
		return 1
	}
	return (n + m.pageSize - 1) / m.pageSize
}

func (m *Model[T]) NextPage() {
	if m.page+1 < m.PageCount() {
		m.page++
	}
}

func (m *Model[T]) PrevPage() {
	if m.page > 0 {
		m.page--
	}
}

// ToggleSelect flips one row's selection by id.
func (m *Model[T]) ToggleSelect(id string) {
	if id == "" {
		return
	}
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
}

// SelectAllOnPage toggles only the rows visible on the current page: if every
// visible row is already selected they are all deselected, otherwise the
// missing ones are added. Rows filtered out or on other pages are untouched.
func (m *Model[T]) SelectAllOnPage() {
	if m.rowID == nil {
		return
	}
	page := m.Page()
	allSelected := len(page) > 0
	for _, row := range page {
		if _, ok := m.selected[m.rowID(row)]; !ok {
			allSelected = false
			break
		}
	}
	for _, row := range page {
		id := m.rowID(row)
		if id == "" {
			continue
		}
		if allSelected {
			delete(m.selected, id)
		} else {
			m.selected[id] = struct{}{}
		}
	}
}

func (m *Model[T]) SelectedIDs() []string {
	out := make([]string, 0, len(m.selected))
	for id := range m.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Model[T]) ClearSelection() {
	m.selected = map[string]struct{}{}
}

func (m *Model[T]) column(key string) *Column[T] {
	for i := range m.columns {
		if m.columns[i].Key == key {
			return &m.columns[i]
		}
	}
	return nil
}

func (m *Model[T]) matches(row T) bool {
	for accessor, query := range m.textFilters {
		val := stringify(Resolve(row, accessor))
		if !strings.Contains(strings.ToLower(val), strings.ToLower(query)) {
			return false
		}
	}
	for key, want := range m.filters {
		col := m.column(key)
		if col == nil {
			continue
		}
		switch col.Filter {
		case FilterText:
			val := stringify(col.resolve(row))
			if !strings.Contains(strings.ToLower(val), strings.ToLower(want)) {
				return false
			}
		case FilterOption:
			if stringify(col.resolve(row)) != want {
				return false
			}
		case FilterArrayContains:
			if col.Labels == nil || !containsLabel(col.Labels(row), want) {
				return false
			}
		case FilterStatus:
			if m.statusOf == nil || m.statusOf(row) != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (m *Model[T]) applySort(rows []T) {
	if m.sortDir == SortNone || m.sortKey == "" {
		return
	}
	col := m.column(m.sortKey)
	if col == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := compareValues(col.resolve(rows[i]), col.resolve(rows[j]))
		if m.sortDir == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// compareValues orders two resolved cell values: numbers numerically, times
// chronologically, everything else as case-insensitive strings. Nil sorts
// first.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(strings.ToLower(stringify(a)), strings.ToLower(stringify(b)))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
