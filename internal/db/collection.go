package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEditLimitReached is returned when a history entry has used all its date corrections.
	ErrEditLimitReached = errors.New("history entry edit limit reached")
)

// WorkshopCollection defines the interface for workshop tree operations.
// A workshop document carries its equipment and tasks.
type WorkshopCollection interface {
	InsertWorkshop(ctx context.Context, workshop models.Workshop) error
	FindWorkshops(ctx context.Context) ([]models.Workshop, error)
	FindWorkshopByID(ctx context.Context, id string) (*models.Workshop, error)
	ReplaceWorkshop(ctx context.Context, workshop models.Workshop) error
	DeleteWorkshop(ctx context.Context, id string) error
}

// HistoryCollection defines the interface for completion history operations.
// History is never deleted and outlives the tasks it references.
type HistoryCollection interface {
	FindHistory(ctx context.Context) ([]models.HistoryEntry, error)
	FindHistoryByID(ctx context.Context, id string) (*models.HistoryEntry, error)
	// UpdateHistoryDate corrects the maintenance date and increments the edit
	// counter, failing with ErrEditLimitReached once MaxHistoryEdits is used.
	UpdateHistoryDate(ctx context.Context, id string, date time.Time) (*models.HistoryEntry, error)
}

// MaintenanceStore is everything the tracker persists.
type MaintenanceStore interface {
	WorkshopCollection
	HistoryCollection
	// RecordCompletion stores the updated workshop and the new history entry
	// as a single write.
	RecordCompletion(ctx context.Context, workshop models.Workshop, entry models.HistoryEntry) error
}
