package tracker

import (
	"context"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

// TaskInput describes a new task.
type TaskInput struct {
	Name                string              `json:"name" yaml:"name"`
	MaintenanceInterval int                 `json:"maintenance_interval" yaml:"maintenance_interval"`
	IntervalUnit        models.IntervalUnit `json:"interval_unit" yaml:"interval_unit"`
	LastMaintenanceDate time.Time           `json:"last_maintenance_date" yaml:"last_maintenance_date"`
}

// TaskEdit changes the definition of a task. The last maintenance date only
// moves through CompleteTask.
type TaskEdit struct {
	Name                string              `json:"name"`
	MaintenanceInterval int                 `json:"maintenance_interval"`
	IntervalUnit        models.IntervalUnit `json:"interval_unit"`
}

// ValidateTask checks a task definition and returns its trimmed name.
// Errors wrap ErrInvalidName, ErrInvalidInterval or ErrInvalidUnit.
func ValidateTask(name string, interval int, unit models.IntervalUnit) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if interval <= 0 {
		return "", ErrInvalidInterval
	}
	if !models.IsValidIntervalUnit(unit) {
		return "", ErrInvalidUnit
	}
	return name, nil
}

// ListWorkshops returns every workshop in creation order.
func (s *Service) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	return s.store.FindWorkshops(ctx)
}

// GetWorkshop returns one workshop.
func (s *Service) GetWorkshop(ctx context.Context, id string) (*models.Workshop, error) {
	return s.store.FindWorkshopByID(ctx, id)
}

// CreateWorkshop adds an empty workshop.
func (s *Service) CreateWorkshop(ctx context.Context, name string) (*models.Workshop, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	w := models.Workshop{
		ID:        s.newID(),
		Name:      name,
		Equipment: []models.Equipment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertWorkshop(ctx, w); err != nil {
		return nil, err
	}
	s.log.WithFields(log.Fields{"workshop_id": w.ID, "name": w.Name}).Info("Workshop created")
	return &w, nil
}

// RenameWorkshop changes a workshop name. Existing history keeps the old name.
func (s *Service) RenameWorkshop(ctx context.Context, id, name string) (*models.Workshop, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	w, err := s.store.FindWorkshopByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Name = name
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkshop removes a workshop with its equipment and tasks. History stays.
func (s *Service) DeleteWorkshop(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkshop(ctx, id); err != nil {
		return err
	}
	s.log.WithField("workshop_id", id).Info("Workshop deleted")
	return nil
}

// AddEquipment appends a piece of equipment to a workshop.
func (s *Service) AddEquipment(ctx context.Context, workshopID, name string) (*models.Equipment, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	w, err := s.store.FindWorkshopByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	eq := models.Equipment{ID: s.newID(), Name: name, Tasks: []models.MaintenanceTask{}}
	w.Equipment = append(w.Equipment, eq)
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return &eq, nil
}

// RenameEquipment changes an equipment name.
func (s *Service) RenameEquipment(ctx context.Context, workshopID, equipmentID, name string) (*models.Equipment, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	w, i, err := s.loadEquipment(ctx, workshopID, equipmentID)
	if err != nil {
		return nil, err
	}
	w.Equipment[i].Name = name
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	eq := w.Equipment[i]
	return &eq, nil
}

// DeleteEquipment removes equipment and its tasks. History stays.
func (s *Service) DeleteEquipment(ctx context.Context, workshopID, equipmentID string) error {
	w, i, err := s.loadEquipment(ctx, workshopID, equipmentID)
	if err != nil {
		return err
	}
	w.Equipment = slices.Delete(w.Equipment, i, i+1)
	return s.save(ctx, w)
}

// AddTask appends a task to a piece of equipment.
func (s *Service) AddTask(ctx context.Context, workshopID, equipmentID string, in TaskInput) (*models.MaintenanceTask, error) {
	name, err := ValidateTask(in.Name, in.MaintenanceInterval, in.IntervalUnit)
	if err != nil {
		return nil, err
	}
	if in.LastMaintenanceDate.IsZero() {
		return nil, ErrInvalidDate
	}
	w, i, err := s.loadEquipment(ctx, workshopID, equipmentID)
	if err != nil {
		return nil, err
	}
	task := models.MaintenanceTask{
		ID:                  s.newID(),
		Name:                name,
		MaintenanceInterval: in.MaintenanceInterval,
		IntervalUnit:        in.IntervalUnit,
		LastMaintenanceDate: schedule.CalendarDate(in.LastMaintenanceDate),
	}
	w.Equipment[i].Tasks = append(w.Equipment[i].Tasks, task)
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	return &task, nil
}

// EditTask replaces the name, interval and unit of a task.
func (s *Service) EditTask(ctx context.Context, workshopID, equipmentID, taskID string, edit TaskEdit) (*models.MaintenanceTask, error) {
	name, err := ValidateTask(edit.Name, edit.MaintenanceInterval, edit.IntervalUnit)
	if err != nil {
		return nil, err
	}
	w, ei, ti, err := s.loadTask(ctx, workshopID, equipmentID, taskID)
	if err != nil {
		return nil, err
	}
	task := &w.Equipment[ei].Tasks[ti]
	task.Name = name
	task.MaintenanceInterval = edit.MaintenanceInterval
	task.IntervalUnit = edit.IntervalUnit
	if err := s.save(ctx, w); err != nil {
		return nil, err
	}
	out := *task
	return &out, nil
}

// DeleteTask removes a task. Its history stays and is reported on time.
func (s *Service) DeleteTask(ctx context.Context, workshopID, equipmentID, taskID string) error {
	w, ei, ti, err := s.loadTask(ctx, workshopID, equipmentID, taskID)
	if err != nil {
		return err
	}
	w.Equipment[ei].Tasks = slices.Delete(w.Equipment[ei].Tasks, ti, ti+1)
	return s.save(ctx, w)
}
