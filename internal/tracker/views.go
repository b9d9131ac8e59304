package tracker

import (
	"context"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

// TaskView is a task with its status on the current day.
type TaskView struct {
	models.MaintenanceTask
	schedule.TaskStatus
}

// EquipmentView is equipment with classified tasks.
type EquipmentView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	Tasks       []TaskView `json:"tasks"`
}

// HistoryQuery selects the ordering of the history view.
type HistoryQuery struct {
	SortKey   schedule.HistorySortKey
	Direction schedule.Direction
}

// DefaultHistoryQuery lists the newest completions first.
var DefaultHistoryQuery = HistoryQuery{SortKey: schedule.SortByDate, Direction: schedule.Descending}

// Snapshot is the full persisted state.
type Snapshot struct {
	Workshops []models.Workshop
	History   []models.HistoryEntry
}

func (s *Service) classify(tasks []models.MaintenanceTask, today time.Time) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = TaskView{MaintenanceTask: t, TaskStatus: schedule.ClassifyWith(t, today, s.labels)}
	}
	return views
}

// TaskStatuses classifies every task of one piece of equipment.
func (s *Service) TaskStatuses(ctx context.Context, workshopID, equipmentID string) ([]TaskView, error) {
	w, i, err := s.loadEquipment(ctx, workshopID, equipmentID)
	if err != nil {
		return nil, err
	}
	return s.classify(w.Equipment[i].Tasks, s.Today()), nil
}

// SortedEquipment lists a workshop's equipment in display order.
func (s *Service) SortedEquipment(ctx context.Context, workshopID string, key schedule.EquipmentSortKey, dir schedule.Direction) ([]EquipmentView, error) {
	w, err := s.store.FindWorkshopByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	sorted := schedule.SortEquipment(w.Equipment, key, dir, today, s.labels)
	views := make([]EquipmentView, len(sorted))
	for i, eq := range sorted {
		views[i] = EquipmentView{ID: eq.ID, Name: eq.Name, Tasks: s.classify(eq.Tasks, today)}
		if due, ok := schedule.NextDueForEquipment(eq, today); ok {
			views[i].NextDueDate = &due
		}
	}
	return views, nil
}

// annotatedHistory classifies the full history against the current tasks.
func (s *Service) annotatedHistory(ctx context.Context) ([]models.HistoryEntryWithStatus, error) {
	workshops, err := s.store.FindWorkshops(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.store.FindHistory(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.Annotate(history, schedule.TaskIndex(workshops)), nil
}

// History returns the annotated history in the requested order.
func (s *Service) History(ctx context.Context, q HistoryQuery) ([]models.HistoryEntryWithStatus, error) {
	entries, err := s.annotatedHistory(ctx)
	if err != nil {
		return nil, err
	}
	if q.SortKey == "" {
		q.SortKey = DefaultHistoryQuery.SortKey
	}
	if q.Direction == "" {
		q.Direction = DefaultHistoryQuery.Direction
	}
	return schedule.SortHistory(entries, q.SortKey, q.Direction, s.labels), nil
}

// TaskHistory returns the completions of the task at workshopID/equipmentID,
// newest first. An unknown path yields ErrNotFound.
func (s *Service) TaskHistory(ctx context.Context, workshopID, equipmentID, taskID string) ([]models.HistoryEntryWithStatus, error) {
	if _, _, _, err := s.loadTask(ctx, workshopID, equipmentID, taskID); err != nil {
		return nil, err
	}
	entries, err := s.annotatedHistory(ctx)
	if err != nil {
		return nil, err
	}
	own := []models.HistoryEntryWithStatus{}
	for _, e := range entries {
		if e.WorkshopID == workshopID && e.EquipmentID == equipmentID && e.TaskID == taskID {
			own = append(own, e)
		}
	}
	return schedule.SortHistory(own, schedule.SortByDate, schedule.Descending, s.labels), nil
}

// Analytics summarises the annotated history.
func (s *Service) Analytics(ctx context.Context, sortBy schedule.WorkshopSort) (schedule.Analytics, error) {
	entries, err := s.annotatedHistory(ctx)
	if err != nil {
		return schedule.Analytics{}, err
	}
	if sortBy != schedule.WorkshopByName {
		sortBy = schedule.WorkshopByValue
	}
	return schedule.Summarize(entries, sortBy, s.labels), nil
}

// Notifications lists every upcoming or overdue task, most urgent first.
func (s *Service) Notifications(ctx context.Context) ([]schedule.DueNotification, error) {
	workshops, err := s.store.FindWorkshops(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.DueNotifications(workshops, s.Today(), s.labels), nil
}

// Snapshot returns the stored workshops and raw history.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	workshops, err := s.store.FindWorkshops(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.store.FindHistory(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Workshops: workshops, History: history}, nil
}
