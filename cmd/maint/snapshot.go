package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/db"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
	"github.com/ukydev/workshop-maintenance/internal/tracker"
	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk YAML layout. Dates are YYYY-MM-DD strings.
type snapshotFile struct {
	Workshops []workshopFile `yaml:"workshops"`
	History   []historyFile  `yaml:"history,omitempty"`
}

type workshopFile struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name"`
	Equipment []equipmentFile `yaml:"equipment"`
}

type equipmentFile struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Tasks []taskFile `yaml:"tasks"`
}

type taskFile struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Interval int    `yaml:"interval"`
	Unit     string `yaml:"unit"`
	Last     string `yaml:"last_maintenance_date"`
}

type historyFile struct {
	ID            string `yaml:"id"`
	WorkshopID    string `yaml:"workshop_id"`
	EquipmentID   string `yaml:"equipment_id"`
	TaskID        string `yaml:"task_id"`
	WorkshopName  string `yaml:"workshop_name"`
	EquipmentName string `yaml:"equipment_name"`
	TaskName      string `yaml:"task_name"`
	Date          string `yaml:"maintenance_date"`
	CompletedAt   string `yaml:"completed_at,omitempty"`
	EditCount     int    `yaml:"edit_count,omitempty"`
}

func readSnapshot(path string) (*tracker.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return f.toModels()
}

func writeSnapshot(path string, snap *tracker.Snapshot) error {
	data, err := yaml.Marshal(fromModels(snap))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// parseTimestamp reads an RFC 3339 instant, accepting a bare date as midnight
// UTC.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return schedule.ParseDate(s)
}

// toModels converts the file layout and applies the same checks the tracker
// applies to API input.
func (f snapshotFile) toModels() (*tracker.Snapshot, error) {
	snap := &tracker.Snapshot{Workshops: []models.Workshop{}, History: []models.HistoryEntry{}}
	for _, wf := range f.Workshops {
		wname, err := tracker.ValidateName(wf.Name)
		if err != nil {
			return nil, fmt.Errorf("workshop %s: %w", wf.ID, err)
		}
		w := models.Workshop{ID: wf.ID, Name: wname, Equipment: []models.Equipment{}}
		for _, ef := range wf.Equipment {
			ename, err := tracker.ValidateName(ef.Name)
			if err != nil {
				return nil, fmt.Errorf("equipment %s: %w", ef.ID, err)
			}
			eq := models.Equipment{ID: ef.ID, Name: ename, Tasks: []models.MaintenanceTask{}}
			for _, tf := range ef.Tasks {
				unit, ok := models.ParseIntervalUnit(tf.Unit)
				if !ok {
					return nil, fmt.Errorf("task %s: unknown interval unit %q", tf.ID, tf.Unit)
				}
				name, err := tracker.ValidateTask(tf.Name, tf.Interval, unit)
				if err != nil {
					return nil, fmt.Errorf("task %s: %w", tf.ID, err)
				}
				last, err := schedule.ParseDate(tf.Last)
				if err != nil {
					return nil, fmt.Errorf("task %s: %w", tf.ID, err)
				}
				eq.Tasks = append(eq.Tasks, models.MaintenanceTask{
					ID:                  tf.ID,
					Name:                name,
					MaintenanceInterval: tf.Interval,
					IntervalUnit:        unit,
					LastMaintenanceDate: last,
				})
			}
			w.Equipment = append(w.Equipment, eq)
		}
		snap.Workshops = append(snap.Workshops, w)
	}

	for _, hf := range f.History {
		date, err := schedule.ParseDate(hf.Date)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", hf.ID, err)
		}
		completed := date
		if hf.CompletedAt != "" {
			if completed, err = parseTimestamp(hf.CompletedAt); err != nil {
				return nil, fmt.Errorf("history %s: completed_at: %w", hf.ID, err)
			}
		}
		if hf.EditCount < 0 || hf.EditCount > models.MaxHistoryEdits {
			return nil, fmt.Errorf("history %s: edit_count %d outside 0..%d", hf.ID, hf.EditCount, models.MaxHistoryEdits)
		}
		snap.History = append(snap.History, models.HistoryEntry{
			ID:                     hf.ID,
			WorkshopID:             hf.WorkshopID,
			EquipmentID:            hf.EquipmentID,
			TaskID:                 hf.TaskID,
			WorkshopName:           hf.WorkshopName,
			EquipmentName:          hf.EquipmentName,
			TaskName:               hf.TaskName,
			MaintenanceDate:        date,
			OriginalCompletionDate: completed,
			EditCount:              hf.EditCount,
		})
	}
	return snap, nil
}

func fromModels(snap *tracker.Snapshot) snapshotFile {
	var f snapshotFile
	for _, w := range snap.Workshops {
		wf := workshopFile{ID: w.ID, Name: w.Name}
		for _, eq := range w.Equipment {
			ef := equipmentFile{ID: eq.ID, Name: eq.Name}
			for _, t := range eq.Tasks {
				ef.Tasks = append(ef.Tasks, taskFile{
					ID:       t.ID,
					Name:     t.Name,
					Interval: t.MaintenanceInterval,
					Unit:     string(t.IntervalUnit),
					Last:     t.LastMaintenanceDate.Format(time.DateOnly),
				})
			}
			wf.Equipment = append(wf.Equipment, ef)
		}
		f.Workshops = append(f.Workshops, wf)
	}
	for _, h := range snap.History {
		f.History = append(f.History, historyFile{
			ID:            h.ID,
			WorkshopID:    h.WorkshopID,
			EquipmentID:   h.EquipmentID,
			TaskID:        h.TaskID,
			WorkshopName:  h.WorkshopName,
			EquipmentName: h.EquipmentName,
			TaskName:      h.TaskName,
			Date:          h.MaintenanceDate.Format(time.DateOnly),
			CompletedAt:   h.OriginalCompletionDate.UTC().Format(time.RFC3339),
			EditCount:     h.EditCount,
		})
	}
	return f
}

// openTracker loads the snapshot into an in-memory store behind a tracker.
func openTracker(opts *rootOptions) (*tracker.Service, error) {
	snap, err := readSnapshot(opts.file)
	if err != nil {
		return nil, err
	}
	serviceOpts := []tracker.Option{
		tracker.WithLabels(schedule.LabelsFor(opts.locale)),
		tracker.WithLogger(log.StandardLogger()),
	}
	if opts.today != "" {
		today, err := schedule.ParseDate(opts.today)
		if err != nil {
			return nil, fmt.Errorf("--today: %w", err)
		}
		serviceOpts = append(serviceOpts, tracker.WithClock(func() time.Time { return today }))
	}
	return tracker.NewService(db.NewMemoryStoreWith(snap.Workshops, snap.History), serviceOpts...), nil
}

// saveTracker writes the tracker's state back to the snapshot file.
func saveTracker(ctx context.Context, service *tracker.Service, path string) error {
	snap, err := service.Snapshot(ctx)
	if err != nil {
		return err
	}
	return writeSnapshot(path, snap)
}
