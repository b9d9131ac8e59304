package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/workshop-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func testUser() models.User {
	return models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleTechnician,
		FirstName:    "Test",
		LastName:     "User",
	}
}

func newTestUserCollection(t *testing.T) *MongoUserCollection {
	client := testMongo(t)
	collection := client.Database(testDatabaseName).Collection(UsersCollectionName)
	require.NoError(t, collection.Drop(context.Background()))
	return &MongoUserCollection{Collection: collection}
}

func TestMongoUserCollection_NilCollection(t *testing.T) {
	c := &MongoUserCollection{}
	ctx := context.Background()

	assert.Error(t, c.InsertUser(ctx, testUser()))
	_, err := c.FindUserByUsername(ctx, "testuser")
	assert.Error(t, err)
	_, err = c.FindUsers(ctx)
	assert.Error(t, err)
	assert.Error(t, c.UpdateLastLogin(ctx, "64b7f0f0f0f0f0f0f0f0f0f0"))
}

func TestMongoUserCollection_InsertUser(t *testing.T) {
	userCollection := newTestUserCollection(t)
	user := testUser()

	err := userCollection.InsertUser(context.Background(), user)
	assert.NoError(t, err)

	var foundUser models.User
	err = userCollection.Collection.FindOne(context.Background(), bson.M{"username": "testuser"}).Decode(&foundUser)
	assert.NoError(t, err)
	assert.Equal(t, user.Username, foundUser.Username)
	assert.Equal(t, user.Email, foundUser.Email)
	assert.Equal(t, user.Role, foundUser.Role)
	assert.True(t, foundUser.IsActive)
	assert.NotZero(t, foundUser.CreatedAt)
	assert.False(t, foundUser.ID.IsZero())
}

func TestMongoUserCollection_Find(t *testing.T) {
	userCollection := newTestUserCollection(t)
	ctx := context.Background()
	require.NoError(t, userCollection.InsertUser(ctx, testUser()))

	byName, err := userCollection.FindUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", byName.Email)

	byID, err := userCollection.FindUserByID(ctx, byName.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "testuser", byID.Username)

	byEmail, err := userCollection.FindUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byEmail.ID)

	users, err := userCollection.FindUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = userCollection.FindUserByUsername(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = userCollection.FindUserByID(ctx, "invalid-id")
	assert.Error(t, err)
}

func TestMongoUserCollection_UpdateAndDelete(t *testing.T) {
	userCollection := newTestUserCollection(t)
	ctx := context.Background()
	require.NoError(t, userCollection.InsertUser(ctx, testUser()))

	inserted, err := userCollection.FindUserByUsername(ctx, "testuser")
	require.NoError(t, err)

	updated := *inserted
	updated.FirstName = "Updated"
	require.NoError(t, userCollection.UpdateUser(ctx, inserted.ID.Hex(), updated))

	found, err := userCollection.FindUserByID(ctx, inserted.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Updated", found.FirstName)

	require.NoError(t, userCollection.UpdateLastLogin(ctx, inserted.ID.Hex()))
	found, err = userCollection.FindUserByID(ctx, inserted.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, found.LastLogin)

	require.NoError(t, userCollection.DeleteUser(ctx, inserted.ID.Hex()))
	_, err = userCollection.FindUserByID(ctx, inserted.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, userCollection.DeleteUser(ctx, inserted.ID.Hex()), ErrNotFound)
}

func TestMemoryUserCollection(t *testing.T) {
	c := NewMemoryUserCollection()
	ctx := context.Background()

	require.NoError(t, c.InsertUser(ctx, testUser()))

	user, err := c.FindUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.ID.IsZero())

	byEmail, err := c.FindUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	user.LastName = "Changed"
	require.NoError(t, c.UpdateUser(ctx, user.ID.Hex(), *user))
	byID, err := c.FindUserByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Changed", byID.LastName)
	assert.Nil(t, byID.LastLogin)

	require.NoError(t, c.UpdateLastLogin(ctx, user.ID.Hex()))
	byID, err = c.FindUserByID(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, byID.LastLogin)

	users, err := c.FindUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, c.DeleteUser(ctx, user.ID.Hex()))
	_, err = c.FindUserByID(ctx, user.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.FindUserByID(ctx, "invalid-id")
	assert.Error(t, err)
}
