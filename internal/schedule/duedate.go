// Package schedule computes next due dates, live task status and the
// retroactive timeliness of completed maintenance. Every function is pure:
// callers pass "today" explicitly and nothing here reads the system clock.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

const day = 24 * time.Hour

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// CalendarDate drops the time of day from t. The visible calendar date of t
// (year, month and day in t's own location) is kept as-is and materialised as
// UTC midnight, so a date parsed from "2024-01-01" stays on the 1st no matter
// which zone the process runs in.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO date ("2006-01-02") or an RFC 3339 timestamp into a
// calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return CalendarDate(t), nil
}

// NextDueDate adds interval units to start. Months use AddDate's normal
// overflow, so Jan 31 + 1 month lands in early March.
func NextDueDate(start time.Time, interval int, unit models.IntervalUnit) time.Time {
	base := CalendarDate(start)
	switch unit {
	case models.IntervalDays:
		return base.AddDate(0, 0, interval)
	case models.IntervalWeeks:
		return base.AddDate(0, 0, interval*7)
	case models.IntervalMonths:
		return base.AddDate(0, interval, 0)
	default:
		return base
	}
}

// DaysBetween returns the whole calendar days from b to a (a minus b),
// rounded up.
func DaysBetween(a, b time.Time) int {
	return ceilDays(CalendarDate(a).Sub(CalendarDate(b)))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
