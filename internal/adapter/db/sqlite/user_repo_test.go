package sqlite

import (
	"context"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-service/internal/domain/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A private :memory: database lives on a single connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func setupRepo(t *testing.T) *UserRepoSQLite {
	return NewUserRepoSQLite(setupTestDB(t), zaptest.NewLogger(t))
}

func seed(t *testing.T, repo *UserRepoSQLite, n int) []user.User {
	users := make([]user.User, n)
	for i := range users {
		// IDs are deliberately not in lexical order to prove listing follows insertion
		users[i] = user.User{
			ID:    fmt.Sprintf("%08d-0000-4000-8000-000000000000", 99-i),
			Name:  fmt.Sprintf("User %d", i),
			Email: fmt.Sprintf("user%d@example.com", i),
		}
		require.NoError(t, repo.Create(context.Background(), &users[i]))
	}
	return users
}

func TestUserRepoSQLite_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &user.User{ID: "6f1c5b7e-2a4d-4c8e-9b3a-1d2e3f4a5b6c", Name: "Ana", Email: "ana@x.com"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *got)
}

func TestUserRepoSQLite_CreateNil(t *testing.T) {
	repo := setupRepo(t)

	err := repo.Create(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user cannot be nil")
}

func TestUserRepoSQLite_DuplicateIDRejected(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	u := &user.User{ID: "dup", Name: "Ana", Email: "ana@x.com"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Error(t, repo.Create(ctx, u))
}

func TestUserRepoSQLite_EmailNotUnique(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{ID: "a", Name: "Ana", Email: "same@x.com"}))
	require.NoError(t, repo.Create(ctx, &user.User{ID: "b", Name: "Bea", Email: "same@x.com"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserRepoSQLite_NotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)

	err = repo.Update(ctx, &user.User{ID: "missing", Name: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, user.ErrNotFound)

	err = repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepoSQLite_Update(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	users := seed(t, repo, 3)

	updated := users[1]
	updated.Name = "Renamed"
	updated.Email = "renamed@example.com"
	require.NoError(t, repo.Update(ctx, &updated))

	// Writing identical values still counts as a match
	require.NoError(t, repo.Update(ctx, &updated))

	got, err := repo.GetByID(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.User{users[0], updated, users[2]}, list)
}

func TestUserRepoSQLite_DeletePreservesOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	users := seed(t, repo, 4)

	require.NoError(t, repo.Delete(ctx, users[1].ID))
	assert.ErrorIs(t, repo.Delete(ctx, users[1].ID), user.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.User{users[0], users[2], users[3]}, list)
}

func TestUserRepoSQLite_ListEmpty(t *testing.T) {
	repo := setupRepo(t)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
