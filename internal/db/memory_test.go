package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/workshop-maintenance/internal/models"
)

func TestMemoryStore_WorkshopCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.InsertWorkshop(ctx, sampleWorkshop("w1")))
	require.NoError(t, s.InsertWorkshop(ctx, sampleWorkshop("w2")))
	assert.Error(t, s.InsertWorkshop(ctx, sampleWorkshop("w1")))

	all, err := s.FindWorkshops(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "w1", all[0].ID)
	assert.Equal(t, "w2", all[1].ID)

	w, err := s.FindWorkshopByID(ctx, "w2")
	require.NoError(t, err)
	w.Name = "Paint shop"
	require.NoError(t, s.ReplaceWorkshop(ctx, *w))

	w, err = s.FindWorkshopByID(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "Paint shop", w.Name)

	require.NoError(t, s.DeleteWorkshop(ctx, "w1"))
	_, err = s.FindWorkshopByID(ctx, "w1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteWorkshop(ctx, "w1"), ErrNotFound)
	assert.ErrorIs(t, s.ReplaceWorkshop(ctx, sampleWorkshop("w1")), ErrNotFound)
}

func TestMemoryStore_NoAliasing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w := sampleWorkshop("w1")
	require.NoError(t, s.InsertWorkshop(ctx, w))
	w.Equipment[0].Tasks[0].Name = "changed by caller"

	found, err := s.FindWorkshopByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Oil change", found.Equipment[0].Tasks[0].Name)

	found.Equipment[0].Name = "changed after read"
	again, err := s.FindWorkshopByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "Lathe", again.Equipment[0].Name)

	list, err := s.FindWorkshops(ctx)
	require.NoError(t, err)
	list[0].Equipment[0].Tasks[0].MaintenanceInterval = 99
	again, err = s.FindWorkshopByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 30, again.Equipment[0].Tasks[0].MaintenanceInterval)
}

func TestMemoryStore_RecordCompletion(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w := sampleWorkshop("w1")
	require.NoError(t, s.InsertWorkshop(ctx, w))

	w.Equipment[0].Tasks[0].LastMaintenanceDate = day(2024, time.March, 1)
	entry := sampleEntry("h1", w, day(2024, time.March, 1))
	require.NoError(t, s.RecordCompletion(ctx, w, entry))

	found, err := s.FindWorkshopByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 1), found.Equipment[0].Tasks[0].LastMaintenanceDate)

	history, err := s.FindHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry, history[0])

	assert.Error(t, s.RecordCompletion(ctx, w, entry), "duplicate entry id")
	assert.ErrorIs(t, s.RecordCompletion(ctx, sampleWorkshop("missing"), sampleEntry("h2", w, day(2024, time.March, 2))), ErrNotFound)

	history, err = s.FindHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMemoryStore_HistorySurvivesWorkshopDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w := sampleWorkshop("w1")
	require.NoError(t, s.InsertWorkshop(ctx, w))
	require.NoError(t, s.RecordCompletion(ctx, w, sampleEntry("h1", w, day(2024, time.March, 1))))
	require.NoError(t, s.DeleteWorkshop(ctx, "w1"))

	entry, err := s.FindHistoryByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Workshop w1", entry.WorkshopName)
}

func TestMemoryStore_UpdateHistoryDate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w := sampleWorkshop("w1")
	require.NoError(t, s.InsertWorkshop(ctx, w))
	require.NoError(t, s.RecordCompletion(ctx, w, sampleEntry("h1", w, day(2024, time.March, 1))))

	updated, err := s.UpdateHistoryDate(ctx, "h1", day(2024, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.EditCount)
	assert.Equal(t, day(2024, time.March, 2), updated.MaintenanceDate)
	assert.Equal(t, day(2024, time.March, 1), updated.OriginalCompletionDate)

	updated, err = s.UpdateHistoryDate(ctx, "h1", day(2024, time.March, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.EditCount)

	_, err = s.UpdateHistoryDate(ctx, "h1", day(2024, time.March, 4))
	assert.ErrorIs(t, err, ErrEditLimitReached)

	_, err = s.UpdateHistoryDate(ctx, "nope", day(2024, time.March, 4))
	assert.ErrorIs(t, err, ErrNotFound)

	entry, err := s.FindHistoryByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.March, 3), entry.MaintenanceDate)
	assert.Equal(t, 2, entry.EditCount)
}

func TestMemoryStore_ConcurrentEditsRespectCap(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	w := sampleWorkshop("w1")
	require.NoError(t, s.InsertWorkshop(ctx, w))
	require.NoError(t, s.RecordCompletion(ctx, w, sampleEntry("h1", w, day(2024, time.March, 1))))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.UpdateHistoryDate(ctx, "h1", day(2024, time.March, 2+i)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	entry, err := s.FindHistoryByID(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 2, entry.EditCount)
}

func TestNewMemoryStoreWith(t *testing.T) {
	w := sampleWorkshop("w1")
	s := NewMemoryStoreWith([]models.Workshop{w}, []models.HistoryEntry{sampleEntry("h1", w, day(2024, time.March, 1))})

	all, err := s.FindWorkshops(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	history, err := s.FindHistory(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
