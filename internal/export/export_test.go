package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

type src struct {
	Name string `json:"name"`
}

type rec struct {
	Title    string     `json:"title"`
	Source   *src       `json:"source"`
	Reviewed bool       `json:"reviewed"`
	At       *time.Time `json:"at"`
}

func testCols() []Column {
	return []Column{
		{Header: "Title", Key: "title"},
		{Header: "Source", Key: "source.name"},
		{Header: "Reviewed", Key: "reviewed"},
		{Header: "At", Key: "at"},
	}
}

func TestCSV(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := []rec{
		{Title: "first", Source: &src{Name: "OSHA"}, Reviewed: true, At: &at},
		{Title: "second"},
	}

	var buf bytes.Buffer
	if err := CSV(&buf, testCols(), rows); err != nil {
		t.Fatalf("CSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][1] != "Source" {
		t.Fatalf("header got %v", records[0])
	}
	if records[1][1] != "OSHA" {
		t.Fatalf("dotted accessor cell got %q", records[1][1])
	}
	if records[1][2] != "Yes" || records[2][2] != "No" {
		t.Fatalf("bool formatting got %q / %q", records[1][2], records[2][2])
	}
	if records[1][3] != "2026-03-14 09:30" {
		t.Fatalf("time formatting got %q", records[1][3])
	}
	if records[2][1] != "" {
		t.Fatalf("nil link must render empty, got %q", records[2][1])
	}
}

func TestCSVTransform(t *testing.T) {
	cols := []Column{{
		Header: "Title", Key: "title",
		Transform: func(v any) any {
			s, _ := v.(string)
			return strings.ToUpper(s)
		},
	}}
	var buf bytes.Buffer
	if err := CSV(&buf, cols, []rec{{Title: "quiet"}}); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if !strings.Contains(buf.String(), "QUIET") {
		t.Fatalf("transform not applied: %q", buf.String())
	}
}

func TestXLSXWritesWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := XLSX(&buf, "Alerts", testCols(), []rec{{Title: "first", Source: &src{Name: "EPA"}}})
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	// XLSX output is a zip archive.
	if buf.Len() == 0 || buf.String()[:2] != "PK" {
		t.Fatalf("expected zip output, got %d bytes", buf.Len())
	}
}

func TestPDFWritesDocument(t *testing.T) {
	rows := make([]rec, 120)
	for i := range rows {
		rows[i] = rec{Title: "row", Source: &src{Name: "OSHA"}}
	}
	var buf bytes.Buffer
	err := PDF(&buf, "Industry Alerts", testCols(), rows, map[string]float64{"title": 60})
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("expected pdf output")
	}
}

func TestTruncateCell(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"short", "short"},
		{strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{strings.Repeat("a", 51), strings.Repeat("a", 47) + "..."},
		{strings.Repeat("é", 60), strings.Repeat("é", 47) + "..."},
	}
	for _, tc := range cases {
		got := truncateCell(tc.in)
		if got != tc.want {
			t.Fatalf("truncateCell(%d runes) = %q", len([]rune(tc.in)), got)
		}
		if n := len([]rune(got)); n > 50 {
			t.Fatalf("truncated cell still %d runes", n)
		}
	}
}
