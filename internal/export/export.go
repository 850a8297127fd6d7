// Package export turns a filtered row set into downloadable CSV, XLSX, or PDF
// documents. Exports are synchronous and memory-bound: they only map rows the
// caller has already fetched, never query anything themselves.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"alertdesk/internal/table"
)

// Column maps one output column to a dotted accessor path, with an optional
// per-cell transform applied after resolution.
type Column struct {
	Header    string
	Key       string
	Transform func(any) any
}

// pdfMaxCell caps PDF cell text; longer values are cut to 47 chars + ellipsis.
const pdfMaxCell = 50

func (c Column) cell(row any) string {
	v := table.Resolve(row, c.Key)
	if c.Transform != nil {
		v = c.Transform(v)
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}

// CSV writes a header row followed by one record per row.
func CSV[T any](w io.Writer, cols []Column, rows []T) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = col.cell(row)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes a single-sheet workbook.
func XLSX[T any](w io.Writer, sheet string, cols []Column, rows []T) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, col.cell(row)); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// PDF lays out a paginated landscape table with the given title. Column widths
// come from the hints map keyed by accessor path; columns without a hint share
// the remaining width evenly. Every page carries the title and a
// "Page X of Y" footer.
func PDF[T any](w io.Writer, title string, cols []Column, rows []T, widthHints map[string]float64) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	widths := columnWidths(pdf, cols, widthHints)
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, truncateCell(col.Header), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	drawHeader()

	_, pageH := pdf.GetPageSize()
	for _, row := range rows {
		if pdf.GetY() > pageH-27 {
			pdf.AddPage()
			drawHeader()
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 6, truncateCell(col.cell(row)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

func columnWidths(pdf *fpdf.Fpdf, cols []Column, hints map[string]float64) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	widths := make([]float64, len(cols))
	remaining := usable
	unhinted := 0
	for i, col := range cols {
		if w, ok := hints[col.Key]; ok && w > 0 {
			widths[i] = w
			remaining -= w
		} else {
			unhinted++
		}
	}
	if unhinted > 0 {
		share := remaining / float64(unhinted)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func truncateCell(s string) string {
	runes := []rune(s)
	if len(runes) <= pdfMaxCell {
		return s
	}
	return string(runes[:pdfMaxCell-3]) + "..."
}
