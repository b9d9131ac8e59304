package models

import "time"

// MaxHistoryEdits is how many times a completion date may be corrected.
const MaxHistoryEdits = 2

// Timeliness is the derived on-time/overdue classification of a completion.
type Timeliness string

const (
	OnTime  Timeliness = "on_time"
	Overdue Timeliness = "overdue"
)

// HistoryEntry records one completion event. Names are captured at completion
// time so the record stays legible after the task, equipment or workshop is deleted.
type HistoryEntry struct {
	ID                     string    `json:"id" bson:"_id"`
	TaskID                 string    `json:"task_id" bson:"task_id"`
	EquipmentID            string    `json:"equipment_id" bson:"equipment_id"`
	WorkshopID             string    `json:"workshop_id" bson:"workshop_id"`
	TaskName               string    `json:"task_name" bson:"task_name"`
	EquipmentName          string    `json:"equipment_name" bson:"equipment_name"`
	WorkshopName           string    `json:"workshop_name" bson:"workshop_name"`
	MaintenanceDate        time.Time `json:"maintenance_date" bson:"maintenance_date"`
	OriginalCompletionDate time.Time `json:"original_completion_date" bson:"original_completion_date"`
	EditCount              int       `json:"edit_count" bson:"edit_count"`
}

// CanEdit reports whether the maintenance date may still be corrected.
func (h *HistoryEntry) CanEdit() bool {
	return h.EditCount < MaxHistoryEdits
}

// EditsRemaining is the number of corrections left, never negative.
func (h *HistoryEntry) EditsRemaining() int {
	if h.EditCount >= MaxHistoryEdits {
		return 0
	}
	return MaxHistoryEdits - h.EditCount
}

// HistoryEntryWithStatus is a history entry plus its derived timeliness.
// It is recomputed on every read and never persisted.
type HistoryEntryWithStatus struct {
	HistoryEntry `bson:",inline"`
	Status       Timeliness `json:"status" bson:"status"`
	OverdueDays  int        `json:"overdue_days" bson:"overdue_days"`
}
