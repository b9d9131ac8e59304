package schedule

import (
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// Status is the live state of a maintenance task.
type Status string

const (
	StatusOK       Status = "ok"
	StatusUpcoming Status = "upcoming"
	StatusOverdue  Status = "overdue"
)

// upcomingShare is the final share of an interval window in which a task is
// reported as due soon.
const upcomingShare = 0.10

// TaskStatus is the derived view of one task on a given day.
type TaskStatus struct {
	NextDueDate        time.Time `json:"next_due_date"`
	DaysRemaining      int       `json:"days_remaining"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Status             Status    `json:"status"`
	Label              string    `json:"label"`
}

// Classify derives the status of task on today using English labels.
func Classify(task models.MaintenanceTask, today time.Time) TaskStatus {
	return ClassifyWith(task, today, EnglishLabels)
}

// ClassifyWith derives the status of task on today, labelled for a locale.
//
// Overdue wins whenever no whole day remains. Otherwise a task is upcoming
// once the remaining time falls inside the last 10% of its interval window.
// An interval window of zero or less reports 100% progress and is never
// upcoming.
func ClassifyWith(task models.MaintenanceTask, today time.Time, labels Labels) TaskStatus {
	next := NextDueDate(task.LastMaintenanceDate, task.MaintenanceInterval, task.IntervalUnit)
	last := CalendarDate(task.LastMaintenanceDate)
	now := CalendarDate(today)

	total := next.Sub(last)
	remaining := next.Sub(now)
	daysRemaining := ceilDays(remaining)

	progress := 100.0
	if total > 0 {
		progress = clampPercent(100 - float64(remaining)/float64(total)*100)
	}
	threshold := float64(total) * upcomingShare

	status := StatusOK
	switch {
	case daysRemaining <= 0:
		status = StatusOverdue
	case float64(remaining) <= threshold && total > 0:
		status = StatusUpcoming
	}

	return TaskStatus{
		NextDueDate:        next,
		DaysRemaining:      daysRemaining,
		ProgressPercentage: progress,
		Status:             status,
		Label:              labels.TaskLabel(status, daysRemaining),
	}
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
