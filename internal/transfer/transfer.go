// Package transfer moves task lists in and out of the store: JSON export
// and import (validated against a JSON Schema) and a printable PDF.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/service"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Export writes tasks to w in the given format.
func Export(w io.Writer, format string, tasks []service.Task) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return ExportJSON(w, tasks)
	case FormatPDF:
		return ExportPDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

// ExportJSON writes tasks in the persisted layout, indented.
func ExportJSON(w io.Writer, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ExportPDF writes a one-table PDF report of tasks.
func ExportPDF(w io.Writer, tasks []service.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	widths := []float64{12, 12, 90, 32, 44}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"ID", "Done", "Task", "Due", "Category"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.CellFormat(0, 7, "No tasks found", "1", 1, "L", false, 0, "")
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "x"
		}
		cells := []string{fmt.Sprint(t.ID), done, tr(t.Text), tr(t.DueDate), tr(t.Category)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, fit(pdf, c, widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit truncates s so it fits a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
