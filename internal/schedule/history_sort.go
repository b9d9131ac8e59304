package schedule

import (
	"slices"
	"strings"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// HistorySortKey is a column of the history table.
type HistorySortKey string

const (
	SortByWorkshop  HistorySortKey = "workshopName"
	SortByEquipment HistorySortKey = "equipmentName"
	SortByTask      HistorySortKey = "taskName"
	SortByDate      HistorySortKey = "maintenanceDate"
	SortByStatus    HistorySortKey = "status"
)

// ParseHistorySortKey accepts the column names above, case-insensitively.
func ParseHistorySortKey(s string) (HistorySortKey, bool) {
	for _, k := range []HistorySortKey{SortByWorkshop, SortByEquipment, SortByTask, SortByDate, SortByStatus} {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}

// SortHistory returns a sorted copy of entries. The ascending order is
// computed first and reversed for Descending. Sorting by status puts overdue
// entries first, most overdue days first.
func SortHistory(entries []models.HistoryEntryWithStatus, key HistorySortKey, dir Direction, labels Labels) []models.HistoryEntryWithStatus {
	out := slices.Clone(entries)
	col := labels.collator()

	slices.SortStableFunc(out, func(a, b models.HistoryEntryWithStatus) int {
		var c int
		switch key {
		case SortByWorkshop:
			c = col.CompareString(a.WorkshopName, b.WorkshopName)
		case SortByEquipment:
			c = col.CompareString(a.EquipmentName, b.EquipmentName)
		case SortByTask:
			c = col.CompareString(a.TaskName, b.TaskName)
		case SortByStatus:
			c = compareTimeliness(a, b)
		default:
			c = a.MaintenanceDate.Compare(b.MaintenanceDate)
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if dir == Descending {
		slices.Reverse(out)
	}
	return out
}

func compareTimeliness(a, b models.HistoryEntryWithStatus) int {
	aLate, bLate := a.Status == models.Overdue, b.Status == models.Overdue
	switch {
	case aLate && !bLate:
		return -1
	case !aLate && bLate:
		return 1
	case aLate && bLate:
		return b.OverdueDays - a.OverdueDays
	default:
		return 0
	}
}
