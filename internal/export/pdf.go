package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

// mmPerChar turns spreadsheet column widths into millimetres on A4 landscape.
const mmPerChar = 2.4

// WritePDF writes entries as a landscape table report. The core fonts only
// cover cp1252, so characters outside it are replaced.
func WritePDF(w io.Writer, entries []models.HistoryEntryWithStatus, labels schedule.Labels) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(labels.ReportTitle))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers(labels) {
		pdf.CellFormat(columnWidths[i]*mmPerChar, 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	overdue := 0
	for _, e := range entries {
		if e.Status == models.Overdue {
			overdue++
			pdf.SetTextColor(180, 0, 0)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		for i, v := range row(e, labels) {
			pdf.CellFormat(columnWidths[i]*mmPerChar, 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%d / %d", len(entries)-overdue, len(entries)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
