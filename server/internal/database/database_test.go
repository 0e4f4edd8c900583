package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenvanduocit/rag-cost-calculator/internal/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func testUser(t *testing.T, db *DB, username string) *User {
	t.Helper()

	user := &User{
		ID:           "id-" + username,
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.CreateUser(user))
	return user
}

func TestUserLifecycle(t *testing.T) {
	db := testDB(t)
	created := testUser(t, db, "alice")

	byName, err := db.GetUserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := db.GetUserByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := db.GetUserByUsername("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDuplicateUsernameRejected(t *testing.T) {
	db := testDB(t)
	testUser(t, db, "alice")

	err := db.CreateUser(&User{
		ID:           "other-id",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	})
	assert.Error(t, err)
}

func TestScenarioLifecycle(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	cfg := model.UsageConfig{Model: "gpt-4o", DailyUsers: 100, ConversationsPerUser: 3}
	require.NoError(t, db.SaveScenario(user.ID, "launch", cfg))

	scenarios, err := db.ListScenarios(user.ID)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "launch", scenarios[0].Name)
	assert.Equal(t, cfg, scenarios[0].Config)

	loaded, err := db.GetScenario(user.ID, scenarios[0].ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cfg, loaded.Config)

	require.NoError(t, db.DeleteScenario(user.ID, scenarios[0].ID))
	scenarios, err = db.ListScenarios(user.ID)
	require.NoError(t, err)
	assert.Empty(t, scenarios)
}

func TestSaveScenarioUpsertsByName(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")

	require.NoError(t, db.SaveScenario(user.ID, "launch", model.UsageConfig{DailyUsers: 100}))
	require.NoError(t, db.SaveScenario(user.ID, "launch", model.UsageConfig{DailyUsers: 500}))

	scenarios, err := db.ListScenarios(user.ID)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, float64(500), scenarios[0].Config.DailyUsers)
}

func TestScenariosScopedToOwner(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")

	require.NoError(t, db.SaveScenario(alice.ID, "launch", model.UsageConfig{DailyUsers: 100}))

	scenarios, err := db.ListScenarios(alice.ID)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)

	other, err := db.GetScenario(bob.ID, scenarios[0].ID)
	require.NoError(t, err)
	assert.Nil(t, other)

	bobsList, err := db.ListScenarios(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobsList)
}
