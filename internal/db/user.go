package db

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ukydev/workshop-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// MongoUserCollection implements UserCollection for MongoDB
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new user into the database
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true

	_, err := c.Collection.InsertOne(ctx, user)
	return err
}

func (c *MongoUserCollection) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var user models.User
	if err := c.Collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByID finds a user by their ID
func (c *MongoUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.M{"_id": objectID})
}

// FindUserByUsername finds a user by their username
func (c *MongoUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.findOne(ctx, bson.M{"username": username})
}

// FindUserByEmail finds a user by their email
func (c *MongoUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.findOne(ctx, bson.M{"email": email})
}

// FindUsers returns every user
func (c *MongoUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates a user in the database
func (c *MongoUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	user.UpdatedAt = time.Now()
	user.ID = objectID

	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteUser deletes a user from the database
func (c *MongoUserCollection) DeleteUser(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateLastLogin updates the last login time for a user
func (c *MongoUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	return err
}

// MemoryUserCollection keeps users in memory for STORE_DRIVER=memory.
type MemoryUserCollection struct {
	mu    sync.RWMutex
	users []models.User
}

// NewMemoryUserCollection creates an empty user collection.
func NewMemoryUserCollection() *MemoryUserCollection {
	return &MemoryUserCollection{}
}

func (c *MemoryUserCollection) find(match func(models.User) bool) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.users, match)
	if i < 0 {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	u := c.users[i]
	return &u, nil
}

func (c *MemoryUserCollection) indexByHex(id string) (int, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, err
	}
	i := slices.IndexFunc(c.users, func(u models.User) bool { return u.ID == objectID })
	if i < 0 {
		return -1, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return i, nil
}

// InsertUser stores a new user, assigning an ID when missing.
func (c *MemoryUserCollection) InsertUser(ctx context.Context, user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	c.users = append(c.users, user)
	return nil
}

// FindUserByID finds a user by hex ID.
func (c *MemoryUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return c.find(func(u models.User) bool { return u.ID == objectID })
}

// FindUserByUsername finds a user by username.
func (c *MemoryUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return c.find(func(u models.User) bool { return u.Username == username })
}

// FindUserByEmail finds a user by email.
func (c *MemoryUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.find(func(u models.User) bool { return u.Email == email })
}

// FindUsers returns a copy of all users.
func (c *MemoryUserCollection) FindUsers(ctx context.Context) ([]models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.User{}, c.users...), nil
}

// UpdateUser replaces a stored user.
func (c *MemoryUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexByHex(id)
	if err != nil {
		return err
	}
	user.ID = c.users[i].ID
	user.UpdatedAt = time.Now()
	c.users[i] = user
	return nil
}

// DeleteUser removes a user.
func (c *MemoryUserCollection) DeleteUser(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexByHex(id)
	if err != nil {
		return err
	}
	c.users = slices.Delete(c.users, i, i+1)
	return nil
}

// UpdateLastLogin stamps the user's last login.
func (c *MemoryUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexByHex(id)
	if err != nil {
		return err
	}
	now := time.Now()
	c.users[i].LastLogin = &now
	c.users[i].UpdatedAt = now
	return nil
}
