// Package tracker is the single write path for workshops, equipment, tasks
// and completion history. Reads are derived on demand through the schedule
// package.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/db"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

var (
	ErrNotFound         = db.ErrNotFound
	ErrEditLimitReached = db.ErrEditLimitReached
	ErrInvalidDate      = schedule.ErrInvalidDate
	ErrInvalidName      = errors.New("name must not be blank")
	ErrInvalidInterval  = errors.New("maintenance interval must be a positive integer")
	ErrInvalidUnit      = errors.New("interval unit must be days, weeks or months")
)

// Service handles maintenance operations
type Service struct {
	store    db.MaintenanceStore
	labels   schedule.Labels
	location *time.Location
	now      func() time.Time
	newID    func() string
	log      log.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone whose calendar date counts as today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLabels sets the locale used for status labels and name ordering.
func WithLabels(labels schedule.Labels) Option {
	return func(s *Service) { s.labels = labels }
}

// WithLogger sets the logger.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a new maintenance service over store
func NewService(store db.MaintenanceStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		labels:   schedule.EnglishLabels,
		location: time.UTC,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Labels returns the label set the service renders with.
func (s *Service) Labels() schedule.Labels {
	return s.labels
}

// Today is the current calendar date in the configured zone.
func (s *Service) Today() time.Time {
	return schedule.CalendarDate(s.now().In(s.location))
}

// notFound wraps ErrNotFound with the missing object.
func notFound(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// ValidateName trims name and rejects it when blank.
func ValidateName(name string) (string, error) {
	return cleanName(name)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// loadEquipment fetches a workshop and locates one of its equipment.
func (s *Service) loadEquipment(ctx context.Context, workshopID, equipmentID string) (*models.Workshop, int, error) {
	w, err := s.store.FindWorkshopByID(ctx, workshopID)
	if err != nil {
		return nil, -1, err
	}
	i := w.FindEquipment(equipmentID)
	if i < 0 {
		return nil, -1, notFound("equipment %s", equipmentID)
	}
	return w, i, nil
}

// loadTask fetches a workshop and locates one task.
func (s *Service) loadTask(ctx context.Context, workshopID, equipmentID, taskID string) (*models.Workshop, int, int, error) {
	w, ei, err := s.loadEquipment(ctx, workshopID, equipmentID)
	if err != nil {
		return nil, -1, -1, err
	}
	ti := w.Equipment[ei].FindTask(taskID)
	if ti < 0 {
		return nil, -1, -1, notFound("task %s", taskID)
	}
	return w, ei, ti, nil
}

func (s *Service) save(ctx context.Context, w *models.Workshop) error {
	w.UpdatedAt = s.now().UTC()
	return s.store.ReplaceWorkshop(ctx, *w)
}
