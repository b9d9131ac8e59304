package tracker

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

// CompleteTask records a completion on date (today when zero). The task's
// last maintenance date and the new history entry are stored together.
func (s *Service) CompleteTask(ctx context.Context, workshopID, equipmentID, taskID string, date time.Time) (*models.HistoryEntry, error) {
	w, ei, ti, err := s.loadTask(ctx, workshopID, equipmentID, taskID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.Today()
	}
	date = schedule.CalendarDate(date)

	eq := &w.Equipment[ei]
	task := &eq.Tasks[ti]
	task.LastMaintenanceDate = date

	now := s.now().UTC()
	w.UpdatedAt = now
	entry := models.HistoryEntry{
		ID:                     s.newID(),
		TaskID:                 task.ID,
		EquipmentID:            eq.ID,
		WorkshopID:             w.ID,
		TaskName:               task.Name,
		EquipmentName:          eq.Name,
		WorkshopName:           w.Name,
		MaintenanceDate:        date,
		OriginalCompletionDate: now,
		EditCount:              0,
	}
	if err := s.store.RecordCompletion(ctx, *w, entry); err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	s.log.WithFields(log.Fields{
		"workshop":  w.Name,
		"equipment": eq.Name,
		"task":      task.Name,
		"date":      date.Format(time.DateOnly),
	}).Info("Maintenance completed")
	return &entry, nil
}

// EditHistoryDate corrects the maintenance date of a history entry. Each
// entry allows models.MaxHistoryEdits corrections.
func (s *Service) EditHistoryDate(ctx context.Context, entryID string, date time.Time) (*models.HistoryEntry, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	entry, err := s.store.FindHistoryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.CanEdit() {
		return nil, fmt.Errorf("history entry %s: %w", entryID, ErrEditLimitReached)
	}
	updated, err := s.store.UpdateHistoryDate(ctx, entryID, schedule.CalendarDate(date))
	if err != nil {
		return nil, err
	}
	s.log.WithFields(log.Fields{
		"entry_id":        entryID,
		"edits_remaining": updated.EditsRemaining(),
	}).Info("History date corrected")
	return updated, nil
}
