package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

// MemoryStore implements MaintenanceStore in process memory. Values are
// copied on the way in and out so callers never share slices with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	workshops []models.Workshop
	history   []models.HistoryEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates a store preloaded with workshops and history,
// for example from a snapshot file.
func NewMemoryStoreWith(workshops []models.Workshop, history []models.HistoryEntry) *MemoryStore {
	s := &MemoryStore{history: append([]models.HistoryEntry{}, history...)}
	for _, w := range workshops {
		s.workshops = append(s.workshops, w.Clone())
	}
	return s
}

func (s *MemoryStore) workshopIndex(id string) int {
	return slices.IndexFunc(s.workshops, func(w models.Workshop) bool { return w.ID == id })
}

func (s *MemoryStore) historyIndex(id string) int {
	return slices.IndexFunc(s.history, func(h models.HistoryEntry) bool { return h.ID == id })
}

// InsertWorkshop appends a workshop.
func (s *MemoryStore) InsertWorkshop(ctx context.Context, workshop models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workshopIndex(workshop.ID) >= 0 {
		return fmt.Errorf("workshop %s already exists", workshop.ID)
	}
	s.workshops = append(s.workshops, workshop.Clone())
	return nil
}

// FindWorkshops returns copies of all workshops in insertion order.
func (s *MemoryStore) FindWorkshops(ctx context.Context) ([]models.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Workshop, len(s.workshops))
	for i, w := range s.workshops {
		out[i] = w.Clone()
	}
	return out, nil
}

// FindWorkshopByID finds a workshop by its ID.
func (s *MemoryStore) FindWorkshopByID(ctx context.Context, id string) (*models.Workshop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.workshopIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("workshop %s: %w", id, ErrNotFound)
	}
	w := s.workshops[i].Clone()
	return &w, nil
}

// ReplaceWorkshop overwrites a workshop with a new value.
func (s *MemoryStore) ReplaceWorkshop(ctx context.Context, workshop models.Workshop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.workshopIndex(workshop.ID)
	if i < 0 {
		return fmt.Errorf("workshop %s: %w", workshop.ID, ErrNotFound)
	}
	s.workshops[i] = workshop.Clone()
	return nil
}

// DeleteWorkshop removes a workshop. History is kept.
func (s *MemoryStore) DeleteWorkshop(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.workshopIndex(id)
	if i < 0 {
		return fmt.Errorf("workshop %s: %w", id, ErrNotFound)
	}
	s.workshops = slices.Delete(s.workshops, i, i+1)
	return nil
}

// FindHistory returns a copy of the history in insertion order.
func (s *MemoryStore) FindHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.HistoryEntry{}, s.history...), nil
}

// FindHistoryByID finds a history entry by its ID.
func (s *MemoryStore) FindHistoryByID(ctx context.Context, id string) (*models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.historyIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}
	h := s.history[i]
	return &h, nil
}

// UpdateHistoryDate corrects the maintenance date while edits remain.
func (s *MemoryStore) UpdateHistoryDate(ctx context.Context, id string, date time.Time) (*models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.historyIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}
	if !s.history[i].CanEdit() {
		return nil, fmt.Errorf("history entry %s: %w", id, ErrEditLimitReached)
	}
	s.history[i].MaintenanceDate = date
	s.history[i].EditCount++
	h := s.history[i]
	return &h, nil
}

// RecordCompletion replaces the workshop and appends the entry under one lock.
func (s *MemoryStore) RecordCompletion(ctx context.Context, workshop models.Workshop, entry models.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.workshopIndex(workshop.ID)
	if i < 0 {
		return fmt.Errorf("workshop %s: %w", workshop.ID, ErrNotFound)
	}
	if s.historyIndex(entry.ID) >= 0 {
		return fmt.Errorf("history entry %s already exists", entry.ID)
	}
	s.workshops[i] = workshop.Clone()
	s.history = append(s.history, entry)
	return nil
}
