package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/workshop-maintenance/internal/models"
)

func TestClassify_UpcomingInsideLastTenPercent(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	st := Classify(tk, date(t, "2024-03-25"))

	assert.Equal(t, date(t, "2024-04-01"), st.NextDueDate)
	assert.Equal(t, 7, st.DaysRemaining)
	assert.Equal(t, StatusUpcoming, st.Status)
	assert.Equal(t, "Due soon (7 days left)", st.Label)
	// 91 day window, 7 days left
	assert.InDelta(t, 100-7.0/91*100, st.ProgressPercentage, 0.001)
}

func TestClassify_OverdueAfterDueDate(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	st := Classify(tk, date(t, "2024-04-05"))

	assert.Equal(t, -4, st.DaysRemaining)
	assert.Equal(t, StatusOverdue, st.Status)
	assert.Equal(t, "Overdue 4 days", st.Label)
	assert.Equal(t, 100.0, st.ProgressPercentage)
}

func TestClassify_DueTodayIsOverdue(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	st := Classify(tk, date(t, "2024-04-01"))

	assert.Equal(t, 0, st.DaysRemaining)
	assert.Equal(t, StatusOverdue, st.Status)
	assert.Equal(t, "Overdue 0 days", st.Label)
}

func TestClassify_JustCompleted(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	st := Classify(tk, date(t, "2024-01-01"))

	assert.Equal(t, 91, st.DaysRemaining)
	assert.Equal(t, StatusOK, st.Status)
	assert.Equal(t, "91 days left", st.Label)
	assert.Equal(t, 0.0, st.ProgressPercentage)
}

func TestClassify_TodayBeforeLastMaintenanceClampsProgress(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	st := Classify(tk, date(t, "2023-12-20"))

	assert.Equal(t, StatusOK, st.Status)
	assert.Equal(t, 0.0, st.ProgressPercentage)
}

func TestClassify_UpcomingThresholdBoundary(t *testing.T) {
	// 10 day window, threshold is exactly one day
	tk := task(t, "t1", "2024-01-01", 10, models.IntervalDays)

	assert.Equal(t, StatusUpcoming, Classify(tk, date(t, "2024-01-10")).Status)
	assert.Equal(t, StatusOK, Classify(tk, date(t, "2024-01-09")).Status)
}

func TestClassify_ZeroLengthWindow(t *testing.T) {
	tk := task(t, "t1", "2024-01-10", 0, models.IntervalDays)

	st := Classify(tk, date(t, "2024-01-05"))
	assert.Equal(t, 5, st.DaysRemaining)
	assert.Equal(t, StatusOK, st.Status)
	assert.Equal(t, 100.0, st.ProgressPercentage)

	st = Classify(tk, date(t, "2024-01-10"))
	assert.Equal(t, StatusOverdue, st.Status)
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)
	zone := time.FixedZone("UTC+7", 7*3600)

	morning := Classify(tk, time.Date(2024, 3, 25, 0, 5, 0, 0, zone))
	evening := Classify(tk, time.Date(2024, 3, 25, 23, 55, 0, 0, zone))

	assert.Equal(t, morning, evening)
	assert.Equal(t, 7, evening.DaysRemaining)
}

func TestClassifyWith_VietnameseLabels(t *testing.T) {
	tk := task(t, "t1", "2024-01-01", 3, models.IntervalMonths)

	assert.Equal(t, "Quá hạn 4 ngày", ClassifyWith(tk, date(t, "2024-04-05"), VietnameseLabels).Label)
	assert.Equal(t, "Sắp tới hạn (còn 7 ngày)", ClassifyWith(tk, date(t, "2024-03-25"), VietnameseLabels).Label)
	assert.Equal(t, "Còn 91 ngày", ClassifyWith(tk, date(t, "2024-01-01"), VietnameseLabels).Label)
}

func TestClassify_Properties(t *testing.T) {
	tasks := []models.MaintenanceTask{
		task(t, "d", "2024-01-01", 1, models.IntervalDays),
		task(t, "w", "2024-01-01", 3, models.IntervalWeeks),
		task(t, "m", "2024-01-31", 1, models.IntervalMonths),
		task(t, "y", "2024-01-01", 12, models.IntervalMonths),
	}
	start := date(t, "2023-12-01")

	for _, tk := range tasks {
		for i := 0; i < 450; i += 3 {
			today := start.AddDate(0, 0, i)
			st := Classify(tk, today)
			assert.Equal(t, st.DaysRemaining <= 0, st.Status == StatusOverdue, "task %s on %s", tk.ID, today)
			assert.GreaterOrEqual(t, st.ProgressPercentage, 0.0)
			assert.LessOrEqual(t, st.ProgressPercentage, 100.0)
		}
	}
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "vi", LabelsFor("vi").Locale)
	assert.Equal(t, "vi", LabelsFor("vi-VN").Locale)
	assert.Equal(t, "en", LabelsFor("en").Locale)
	assert.Equal(t, "en", LabelsFor("fr").Locale)
}
