package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const testDatabaseName = "test_workshop_maintenance"

// testMongo connects to MONGO_URI or skips the test.
func testMongo(t *testing.T) *mongo.Client {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	client, err := ConnectMongo(context.Background(), uri)
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleWorkshop(id string) models.Workshop {
	return models.Workshop{
		ID:   id,
		Name: "Workshop " + id,
		Equipment: []models.Equipment{{
			ID:   id + "-eq",
			Name: "Lathe",
			Tasks: []models.MaintenanceTask{{
				ID:                  id + "-task",
				Name:                "Oil change",
				MaintenanceInterval: 30,
				IntervalUnit:        models.IntervalDays,
				LastMaintenanceDate: day(2024, time.January, 1),
			}},
		}},
		CreatedAt: day(2024, time.January, 1),
	}
}

func sampleEntry(id string, w models.Workshop, date time.Time) models.HistoryEntry {
	eq := w.Equipment[0]
	task := eq.Tasks[0]
	return models.HistoryEntry{
		ID:                     id,
		TaskID:                 task.ID,
		EquipmentID:            eq.ID,
		WorkshopID:             w.ID,
		TaskName:               task.Name,
		EquipmentName:          eq.Name,
		WorkshopName:           w.Name,
		MaintenanceDate:        date,
		OriginalCompletionDate: date,
	}
}
