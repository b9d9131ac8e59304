package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	WorkshopsCollectionName = "workshops"
	HistoryCollectionName   = "history"
	UsersCollectionName     = "users"
)

// ConnectMongo connects to MongoDB and pings it.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoStore implements MaintenanceStore on two collections. RecordCompletion
// runs in a transaction, so the server must be a replica set.
type MongoStore struct {
	Client    *mongo.Client
	Workshops *mongo.Collection
	History   *mongo.Collection
}

// NewMongoStore binds a store to the named database.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	d := client.Database(database)
	return &MongoStore{
		Client:    client,
		Workshops: d.Collection(WorkshopsCollectionName),
		History:   d.Collection(HistoryCollectionName),
	}
}

// EnsureIndexes creates the indexes history queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if s.History == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.History.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "maintenance_date", Value: 1}},
	})
	return err
}

// InsertWorkshop inserts a workshop document.
func (s *MongoStore) InsertWorkshop(ctx context.Context, workshop models.Workshop) error {
	if s.Workshops == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Workshops.InsertOne(ctx, workshop)
	return err
}

// FindWorkshops returns every workshop in creation order.
func (s *MongoStore) FindWorkshops(ctx context.Context) ([]models.Workshop, error) {
	if s.Workshops == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := s.Workshops.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workshops := []models.Workshop{}
	if err := cursor.All(ctx, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}

// FindWorkshopByID finds a workshop by its ID.
func (s *MongoStore) FindWorkshopByID(ctx context.Context, id string) (*models.Workshop, error) {
	if s.Workshops == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var workshop models.Workshop
	err := s.Workshops.FindOne(ctx, bson.M{"_id": id}).Decode(&workshop)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("workshop %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &workshop, nil
}

// ReplaceWorkshop overwrites a workshop document with a new value.
func (s *MongoStore) ReplaceWorkshop(ctx context.Context, workshop models.Workshop) error {
	if s.Workshops == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	return replaceWorkshop(ctx, s.Workshops, workshop)
}

func replaceWorkshop(ctx context.Context, coll *mongo.Collection, workshop models.Workshop) error {
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": workshop.ID}, workshop)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("workshop %s: %w", workshop.ID, ErrNotFound)
	}
	return nil
}

// DeleteWorkshop deletes a workshop with its equipment and tasks. History is kept.
func (s *MongoStore) DeleteWorkshop(ctx context.Context, id string) error {
	if s.Workshops == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := s.Workshops.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("workshop %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindHistory returns every history entry ordered by maintenance date.
func (s *MongoStore) FindHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	if s.History == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := s.History.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "maintenance_date", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	history := []models.HistoryEntry{}
	if err := cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// FindHistoryByID finds a history entry by its ID.
func (s *MongoStore) FindHistoryByID(ctx context.Context, id string) (*models.HistoryEntry, error) {
	if s.History == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var entry models.HistoryEntry
	err := s.History.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// UpdateHistoryDate sets a new maintenance date only while edit_count is
// below the cap; the filter and the increment are applied atomically.
func (s *MongoStore) UpdateHistoryDate(ctx context.Context, id string, date time.Time) (*models.HistoryEntry, error) {
	if s.History == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	filter := bson.M{"_id": id, "edit_count": bson.M{"$lt": models.MaxHistoryEdits}}
	update := bson.M{
		"$set": bson.M{"maintenance_date": date},
		"$inc": bson.M{"edit_count": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var entry models.HistoryEntry
	err := s.History.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry)
	if err == nil {
		return &entry, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	// Nothing matched: either the entry is missing or it is out of edits.
	if _, findErr := s.FindHistoryByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("history entry %s: %w", id, ErrEditLimitReached)
}

// RecordCompletion replaces the workshop and inserts the history entry in
// one transaction.
func (s *MongoStore) RecordCompletion(ctx context.Context, workshop models.Workshop, entry models.HistoryEntry) error {
	if s.Client == nil || s.Workshops == nil || s.History == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := replaceWorkshop(sc, s.Workshops, workshop); err != nil {
			return nil, err
		}
		if _, err := s.History.InsertOne(sc, entry); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
