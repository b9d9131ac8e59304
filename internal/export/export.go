// Package export renders annotated maintenance history as a spreadsheet or a
// printable report. Entries are written in the order given.
package export

import (
	"fmt"
	"strings"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" or "pdf", defaulting to xlsx when empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName is the download name for the locale.
func FileName(labels schedule.Labels, f Format) string {
	base := "maintenance-history"
	if labels.Locale == "vi" {
		base = "LichSuBaoTri"
	}
	return base + "." + string(f)
}

// columnWidths are in characters, one per header.
var columnWidths = []float64{25, 25, 25, 20, 20}

func headers(labels schedule.Labels) []string {
	return []string{
		labels.WorkshopHeader,
		labels.EquipmentHeader,
		labels.TaskHeader,
		labels.DateHeader,
		labels.StatusHeader,
	}
}

func row(e models.HistoryEntryWithStatus, labels schedule.Labels) []string {
	return []string{
		e.WorkshopName,
		e.EquipmentName,
		e.TaskName,
		e.MaintenanceDate.Format(labels.DateLayout),
		labels.TimelinessLabel(e),
	}
}
