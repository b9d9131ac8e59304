package schedule

import (
	"slices"
	"strings"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// Direction is a sort direction requested by the display layer.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection maps "asc" and "desc" to a Direction and anything else to fallback.
func ParseDirection(s string, fallback Direction) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return fallback
	}
}

// EquipmentSortKey selects how equipment within a workshop is ordered.
type EquipmentSortKey string

const (
	EquipmentByName EquipmentSortKey = "name"
	EquipmentByDate EquipmentSortKey = "date"
)

// NextDueForEquipment returns the earliest next due date among the tasks of
// eq. The boolean is false when eq has no tasks.
func NextDueForEquipment(eq models.Equipment, today time.Time) (time.Time, bool) {
	if len(eq.Tasks) == 0 {
		return time.Time{}, false
	}
	var earliest time.Time
	for i, task := range eq.Tasks {
		next := Classify(task, today).NextDueDate
		if i == 0 || next.Before(earliest) {
			earliest = next
		}
	}
	return earliest, true
}

// SortEquipment returns a sorted copy of eqs. When sorting by date, equipment
// without tasks always goes last, whatever the direction.
func SortEquipment(eqs []models.Equipment, key EquipmentSortKey, dir Direction, today time.Time, labels Labels) []models.Equipment {
	type keyed struct {
		eq  models.Equipment
		due time.Time
		has bool
	}
	items := make([]keyed, len(eqs))
	for i, eq := range eqs {
		due, has := NextDueForEquipment(eq, today)
		items[i] = keyed{eq: eq, due: due, has: has}
	}

	col := labels.collator()
	slices.SortStableFunc(items, func(a, b keyed) int {
		if key == EquipmentByName {
			c := col.CompareString(a.eq.Name, b.eq.Name)
			if dir == Descending {
				return -c
			}
			return c
		}
		switch {
		case a.has && !b.has:
			return -1
		case !a.has && b.has:
			return 1
		case !a.has && !b.has:
			return 0
		}
		c := a.due.Compare(b.due)
		if dir == Descending {
			return -c
		}
		return c
	})

	out := make([]models.Equipment, len(items))
	for i, it := range items {
		out[i] = it.eq
	}
	return out
}
