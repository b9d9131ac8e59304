package export

import (
	"fmt"
	"io"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes entries as a single-sheet workbook.
func WriteXLSX(w io.Writer, entries []models.HistoryEntryWithStatus, labels schedule.Labels) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := labels.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, sheet, 1, headers(labels)); err != nil {
		return err
	}
	for i, e := range entries {
		if err := writeRow(f, sheet, i+2, row(e, labels)); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(columnWidths))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}
