package schedule

import (
	"slices"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// DueNotification is a task that needs attention, with enough context to
// locate it in the workshop tree.
type DueNotification struct {
	WorkshopID    string    `json:"workshop_id"`
	WorkshopName  string    `json:"workshop_name"`
	EquipmentID   string    `json:"equipment_id"`
	EquipmentName string    `json:"equipment_name"`
	TaskID        string    `json:"task_id"`
	TaskName      string    `json:"task_name"`
	Status        Status    `json:"status"`
	DaysRemaining int       `json:"days_remaining"`
	NextDueDate   time.Time `json:"next_due_date"`
	Label         string    `json:"label"`
}

// DueNotifications lists every upcoming or overdue task, most urgent first.
func DueNotifications(workshops []models.Workshop, today time.Time, labels Labels) []DueNotification {
	out := []DueNotification{}
	for _, w := range workshops {
		for _, eq := range w.Equipment {
			for _, task := range eq.Tasks {
				st := ClassifyWith(task, today, labels)
				if st.Status == StatusOK {
					continue
				}
				out = append(out, DueNotification{
					WorkshopID:    w.ID,
					WorkshopName:  w.Name,
					EquipmentID:   eq.ID,
					EquipmentName: eq.Name,
					TaskID:        task.ID,
					TaskName:      task.Name,
					Status:        st.Status,
					DaysRemaining: st.DaysRemaining,
					NextDueDate:   st.NextDueDate,
					Label:         st.Label,
				})
			}
		}
	}
	slices.SortStableFunc(out, func(a, b DueNotification) int {
		return a.DaysRemaining - b.DaysRemaining
	})
	return out
}
