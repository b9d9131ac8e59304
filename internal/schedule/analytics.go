package schedule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// analyticsMonths is how many of the most recent active months are reported.
const analyticsMonths = 12

// MonthCount is the number of completions logged in one calendar month.
type MonthCount struct {
	Label string `json:"label"` // MM/YYYY
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// WorkshopCount is the number of completions logged for one workshop name.
type WorkshopCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WorkshopSort orders the per-workshop breakdown.
type WorkshopSort string

const (
	WorkshopByValue WorkshopSort = "value"
	WorkshopByName  WorkshopSort = "name"
)

// Analytics summarises annotated history.
type Analytics struct {
	Total      int             `json:"total"`
	Overdue    int             `json:"overdue"`
	OnTimeRate float64         `json:"on_time_rate"` // percent, 0 when there is no history
	Monthly    []MonthCount    `json:"monthly"`
	ByWorkshop []WorkshopCount `json:"by_workshop"`
}

// Summarize builds the analytics view of entries.
func Summarize(entries []models.HistoryEntryWithStatus, sortBy WorkshopSort, labels Labels) Analytics {
	a := Analytics{
		Total:      len(entries),
		Monthly:    MonthlyActivity(entries),
		ByWorkshop: WorkshopActivity(entries, sortBy, labels),
	}
	for _, e := range entries {
		if e.Status == models.Overdue {
			a.Overdue++
		}
	}
	if a.Total > 0 {
		a.OnTimeRate = float64(a.Total-a.Overdue) / float64(a.Total) * 100
	}
	return a
}

// MonthlyActivity counts completions per month, oldest first, keeping only
// the last twelve months that have any activity.
func MonthlyActivity(entries []models.HistoryEntryWithStatus) []MonthCount {
	counts := make(map[int]int)
	for _, e := range entries {
		d := CalendarDate(e.MaintenanceDate)
		counts[d.Year()*12+int(d.Month())-1]++
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) > analyticsMonths {
		keys = keys[len(keys)-analyticsMonths:]
	}

	out := make([]MonthCount, 0, len(keys))
	for _, k := range keys {
		year, month := k/12, k%12+1
		out = append(out, MonthCount{
			Label: fmt.Sprintf("%02d/%d", month, year),
			Year:  year,
			Month: month,
			Count: counts[k],
		})
	}
	return out
}

// WorkshopActivity counts completions per workshop name. Sorting by value
// puts the busiest workshop first; ties fall back to name order.
func WorkshopActivity(entries []models.HistoryEntryWithStatus, sortBy WorkshopSort, labels Labels) []WorkshopCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.WorkshopName]++
	}

	out := make([]WorkshopCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, WorkshopCount{Name: name, Count: n})
	}

	col := labels.collator()
	slices.SortFunc(out, func(a, b WorkshopCount) int {
		if sortBy != WorkshopByName && a.Count != b.Count {
			return b.Count - a.Count
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
