package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/db/models"
	"github.com/higherself/network-server/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  role TEXT NOT NULL DEFAULT 'View Only',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM users").Error)
	})
	return db
}

func seedRepoUser(t *testing.T, repo *Repository, username, email, role string) *models.User {
	t.Helper()

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Username:     "mtorres",
		Email:        "maya.torres@the7space.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, models.RoleViewOnly, user.Role)
	assert.True(t, user.IsActive)
}

func TestFindByIdentifierIsCaseInsensitive(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	created := seedRepoUser(t, repo, "mtorres", "maya.torres@the7space.com", models.RoleAdmin)

	byUsername, err := repo.FindByIdentifier(context.Background(), "MTORRES")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	byEmail, err := repo.FindByIdentifier(context.Background(), "  Maya.Torres@The7Space.com ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByIdentifier(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	created := seedRepoUser(t, repo, "mtorres", "maya.torres@the7space.com", models.RoleViewOnly)

	role := models.RoleProjectManager
	updated, err := repo.Update(context.Background(), created.ID, UpdateUserDTO{Role: &role})
	require.NoError(t, err)

	assert.Equal(t, models.RoleProjectManager, updated.Role)
	assert.Equal(t, created.Username, updated.Username)
	assert.Equal(t, created.Email, updated.Email)
}

func TestUpdateMissingUserReturnsRecordNotFound(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	role := models.RoleAdmin
	_, err := repo.Update(context.Background(), uuid.New(), UpdateUserDTO{Role: &role})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.UpdatePassword(context.Background(), uuid.New(), "newhash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.SoftDelete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSoftDeleteKeepsRow(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	created := seedRepoUser(t, repo, "mtorres", "maya.torres@the7space.com", models.RoleAdmin)

	require.NoError(t, repo.SoftDelete(context.Background(), created.ID))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	created := seedRepoUser(t, repo, "mtorres", "maya.torres@the7space.com", models.RoleAdmin)

	at := time.Date(2025, 2, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(context.Background(), created.ID, at))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))
}

func TestListFiltersAndCounts(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	seedRepoUser(t, repo, "admin1", "admin1@the7space.com", models.RoleAdmin)
	seedRepoUser(t, repo, "pm1", "pm1@the7space.com", models.RoleProjectManager)
	inactive := seedRepoUser(t, repo, "pm2", "pm2@the7space.com", models.RoleProjectManager)
	require.NoError(t, repo.SoftDelete(context.Background(), inactive.ID))

	page := pagination.Params{Page: 1, PerPage: 10}

	rows, total, err := repo.List(context.Background(), ListFilter{Role: models.RoleProjectManager}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	active := true
	rows, total, err = repo.List(context.Background(), ListFilter{Role: models.RoleProjectManager, Active: &active}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "pm1", rows[0].Username)

	rows, total, err = repo.List(context.Background(), ListFilter{Search: "ADMIN"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "admin1", rows[0].Username)
}
