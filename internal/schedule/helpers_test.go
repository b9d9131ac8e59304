package schedule

import (
	"testing"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func task(t *testing.T, id, last string, interval int, unit models.IntervalUnit) models.MaintenanceTask {
	t.Helper()
	return models.MaintenanceTask{
		ID:                  id,
		Name:                "task " + id,
		MaintenanceInterval: interval,
		IntervalUnit:        unit,
		LastMaintenanceDate: date(t, last),
	}
}

func entry(t *testing.T, id, taskID, day string) models.HistoryEntry {
	t.Helper()
	return models.HistoryEntry{
		ID:              id,
		TaskID:          taskID,
		TaskName:        "task " + taskID,
		EquipmentName:   "Press 1",
		WorkshopName:    "Stamping",
		MaintenanceDate: date(t, day),
	}
}
