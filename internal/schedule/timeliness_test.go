package schedule

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/workshop-maintenance/internal/models"
)

func TestAnnotate_Empty(t *testing.T) {
	out := Annotate(nil, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAnnotate_LateSecondCompletion(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{
		"t1": task(t, "t1", "2024-04-10", 3, models.IntervalMonths),
	}
	history := []models.HistoryEntry{
		entry(t, "h2", "t1", "2024-04-10"),
		entry(t, "h1", "t1", "2024-01-01"),
	}

	out := Annotate(history, tasks)

	require.Len(t, out, 2)
	assert.Equal(t, "h1", out[0].ID)
	assert.Equal(t, models.OnTime, out[0].Status)
	assert.Equal(t, 0, out[0].OverdueDays)
	assert.Equal(t, "h2", out[1].ID)
	assert.Equal(t, models.Overdue, out[1].Status)
	assert.Equal(t, 9, out[1].OverdueDays)
}

func TestAnnotate_EarlyAndExactCompletionsAreOnTime(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{
		"t1": task(t, "t1", "2024-01-01", 30, models.IntervalDays),
	}
	history := []models.HistoryEntry{
		entry(t, "h1", "t1", "2024-01-01"),
		entry(t, "h2", "t1", "2024-01-20"), // due 01-31, early
		entry(t, "h3", "t1", "2024-02-19"), // due 02-19, exact
	}

	for _, e := range Annotate(history, tasks) {
		assert.Equal(t, models.OnTime, e.Status, e.ID)
		assert.Equal(t, 0, e.OverdueDays, e.ID)
	}
}

func TestAnnotate_ChainUsesPreviousActualCompletion(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{
		"t1": task(t, "t1", "2024-07-05", 3, models.IntervalMonths),
	}
	history := []models.HistoryEntry{
		entry(t, "h1", "t1", "2024-01-01"),
		entry(t, "h2", "t1", "2024-04-10"), // due 04-01
		entry(t, "h3", "t1", "2024-07-05"), // due 07-10 from h2, not 07-01
	}

	out := Annotate(history, tasks)

	require.Len(t, out, 3)
	assert.Equal(t, models.Overdue, out[1].Status)
	assert.Equal(t, 9, out[1].OverdueDays)
	assert.Equal(t, models.OnTime, out[2].Status)
}

func TestAnnotate_CurrentIntervalAppliesRetroactively(t *testing.T) {
	history := []models.HistoryEntry{
		entry(t, "h1", "t1", "2024-01-01"),
		entry(t, "h2", "t1", "2024-03-01"),
	}

	quarterly := map[string]models.MaintenanceTask{"t1": task(t, "t1", "2024-03-01", 3, models.IntervalMonths)}
	monthly := map[string]models.MaintenanceTask{"t1": task(t, "t1", "2024-03-01", 1, models.IntervalMonths)}

	assert.Equal(t, models.OnTime, Annotate(history, quarterly)[1].Status)

	out := Annotate(history, monthly)
	assert.Equal(t, models.Overdue, out[1].Status)
	assert.Equal(t, 29, out[1].OverdueDays)
}

func TestAnnotate_DeletedTaskFallsBackToOnTime(t *testing.T) {
	history := []models.HistoryEntry{
		entry(t, "h1", "gone", "2024-01-01"),
		entry(t, "h2", "gone", "2025-06-01"),
		entry(t, "h3", "gone", "2026-09-01"),
	}

	for _, tasks := range []map[string]models.MaintenanceTask{nil, {"other": task(t, "other", "2024-01-01", 1, models.IntervalDays)}} {
		out := Annotate(history, tasks)
		require.Len(t, out, 3)
		for _, e := range out {
			assert.Equal(t, models.OnTime, e.Status)
			assert.Equal(t, 0, e.OverdueDays)
		}
	}
}

func TestAnnotate_FirstEntryPerTaskAlwaysOnTime(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{
		"t1": task(t, "t1", "2024-01-01", 1, models.IntervalDays),
		"t2": task(t, "t2", "2024-01-01", 1, models.IntervalDays),
	}
	history := []models.HistoryEntry{
		entry(t, "b", "t2", "2024-05-01"),
		entry(t, "a", "t1", "2024-03-01"),
		entry(t, "c", "t2", "2024-02-01"),
		entry(t, "d", "t1", "2024-04-01"),
	}

	out := Annotate(history, tasks)

	require.Len(t, out, 4)
	// groups follow first appearance: t2 then t1, each chronological
	assert.Equal(t, []string{"c", "b", "a", "d"}, historyIDs(out))
	assert.Equal(t, models.OnTime, out[0].Status)
	assert.Equal(t, models.OnTime, out[2].Status)
	assert.Equal(t, models.Overdue, out[1].Status)
	assert.Equal(t, models.Overdue, out[3].Status)
}

func TestAnnotate_TiesBrokenByID(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{"t1": task(t, "t1", "2024-01-01", 1, models.IntervalDays)}
	history := []models.HistoryEntry{
		entry(t, "b", "t1", "2024-01-01"),
		entry(t, "a", "t1", "2024-01-01"),
	}

	out := Annotate(history, tasks)

	assert.Equal(t, []string{"a", "b"}, historyIDs(out))
	assert.Equal(t, models.OnTime, out[1].Status)
}

func TestAnnotate_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	tasks := map[string]models.MaintenanceTask{"t1": task(t, "t1", "2024-01-01", 2, models.IntervalWeeks)}
	history := []models.HistoryEntry{
		entry(t, "h3", "t1", "2024-03-20"),
		entry(t, "h1", "t1", "2024-01-01"),
		entry(t, "h2", "t1", "2024-02-01"),
	}
	before := slices.Clone(history)

	first := Annotate(history, tasks)
	second := Annotate(history, tasks)

	assert.Equal(t, first, second)
	assert.Equal(t, before, history)
}

func TestTaskIndex(t *testing.T) {
	workshops := []models.Workshop{
		{ID: "w1", Equipment: []models.Equipment{
			{ID: "e1", Tasks: []models.MaintenanceTask{{ID: "t1"}, {ID: "t2"}}},
			{ID: "e2"},
		}},
		{ID: "w2", Equipment: []models.Equipment{
			{ID: "e3", Tasks: []models.MaintenanceTask{{ID: "t3"}}},
		}},
	}

	idx := TaskIndex(workshops)

	assert.Len(t, idx, 3)
	assert.Contains(t, idx, "t1")
	assert.Contains(t, idx, "t3")
	assert.Empty(t, TaskIndex(nil))
}

func historyIDs(entries []models.HistoryEntryWithStatus) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
