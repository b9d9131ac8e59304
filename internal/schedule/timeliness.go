package schedule

import (
	"slices"
	"strings"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// TaskIndex maps every task id in the workshop tree to its current definition.
func TaskIndex(workshops []models.Workshop) map[string]models.MaintenanceTask {
	tasks := make(map[string]models.MaintenanceTask)
	for _, w := range workshops {
		for _, eq := range w.Equipment {
			for _, task := range eq.Tasks {
				tasks[task.ID] = task
			}
		}
	}
	return tasks
}

// Annotate classifies every history entry as on time or overdue.
//
// Entries are grouped by task and ordered by maintenance date (ties by id).
// Each completion is judged against the due date implied by the previous
// completion of the same task, using the task's current interval and unit.
// The first completion of a task, and every completion of a task that no
// longer exists in tasks, is on time. Groups are emitted in the order their
// task first appears in history.
func Annotate(history []models.HistoryEntry, tasks map[string]models.MaintenanceTask) []models.HistoryEntryWithStatus {
	out := make([]models.HistoryEntryWithStatus, 0, len(history))
	if len(history) == 0 {
		return out
	}

	var order []string
	groups := make(map[string][]models.HistoryEntry)
	for _, h := range history {
		if _, seen := groups[h.TaskID]; !seen {
			order = append(order, h.TaskID)
		}
		groups[h.TaskID] = append(groups[h.TaskID], h)
	}

	for _, taskID := range order {
		entries := groups[taskID]
		slices.SortStableFunc(entries, func(a, b models.HistoryEntry) int {
			if c := a.MaintenanceDate.Compare(b.MaintenanceDate); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})

		task, known := tasks[taskID]
		for i, cur := range entries {
			annotated := models.HistoryEntryWithStatus{HistoryEntry: cur, Status: models.OnTime}
			if i > 0 && known {
				due := NextDueDate(entries[i-1].MaintenanceDate, task.MaintenanceInterval, task.IntervalUnit)
				if late := DaysBetween(cur.MaintenanceDate, due); late > 0 {
					annotated.Status = models.Overdue
					annotated.OverdueDays = late
				}
			}
			out = append(out, annotated)
		}
	}
	return out
}
