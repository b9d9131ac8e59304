package models

import (
	"strings"
	"time"
)

// IntervalUnit is the unit a maintenance interval is expressed in.
type IntervalUnit string

const (
	IntervalDays   IntervalUnit = "days"
	IntervalWeeks  IntervalUnit = "weeks"
	IntervalMonths IntervalUnit = "months"
)

// IsValidIntervalUnit checks if a unit is one of the supported interval units
func IsValidIntervalUnit(unit IntervalUnit) bool {
	switch unit {
	case IntervalDays, IntervalWeeks, IntervalMonths:
		return true
	default:
		return false
	}
}

// ParseIntervalUnit accepts the singular and plural spellings of a unit.
func ParseIntervalUnit(s string) (IntervalUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "days":
		return IntervalDays, true
	case "week", "weeks":
		return IntervalWeeks, true
	case "month", "months":
		return IntervalMonths, true
	default:
		return "", false
	}
}

// MaintenanceTask is a recurring maintenance obligation on one piece of equipment.
type MaintenanceTask struct {
	ID                  string       `json:"id" bson:"id"`
	Name                string       `json:"name" bson:"name"`
	MaintenanceInterval int          `json:"maintenance_interval" bson:"maintenance_interval"`
	IntervalUnit        IntervalUnit `json:"interval_unit" bson:"interval_unit"`
	LastMaintenanceDate time.Time    `json:"last_maintenance_date" bson:"last_maintenance_date"` // calendar date, UTC midnight
}

// Equipment is a machine owned by a workshop; tasks keep insertion order.
type Equipment struct {
	ID    string            `json:"id" bson:"id"`
	Name  string            `json:"name" bson:"name"`
	Tasks []MaintenanceTask `json:"tasks" bson:"tasks"`
}

// Workshop is the top-level owned collection of equipment.
type Workshop struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name" bson:"name"`
	Equipment []Equipment `json:"equipment" bson:"equipment"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// FindEquipment returns the index of the equipment with the given id, or -1.
func (w *Workshop) FindEquipment(id string) int {
	for i := range w.Equipment {
		if w.Equipment[i].ID == id {
			return i
		}
	}
	return -1
}

// FindTask returns the index of the task with the given id, or -1.
func (e *Equipment) FindTask(id string) int {
	for i := range e.Tasks {
		if e.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can build a new state value without
// aliasing the original slices.
func (w Workshop) Clone() Workshop {
	out := w
	out.Equipment = make([]Equipment, len(w.Equipment))
	for i, eq := range w.Equipment {
		out.Equipment[i] = eq
		out.Equipment[i].Tasks = append([]MaintenanceTask(nil), eq.Tasks...)
	}
	return out
}
