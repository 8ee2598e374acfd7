package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

func seedUser(t *testing.T, repo *GormUserRepository, id, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	u := &domain.User{Name: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID, "id should be assigned on create")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	seedUser(t, repo, "", "alice", "alice@example.com")

	err := repo.Create(ctx, &domain.User{Name: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = repo.UpdateProfile(ctx, "missing", "name", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryGetByIDsPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	seedUser(t, repo, "u1", "alice", "alice@example.com")
	seedUser(t, repo, "u2", "bob", "bob@example.com")
	seedUser(t, repo, "u3", "carol", "carol@example.com")

	users, err := repo.GetByIDs(ctx, []string{"u3", "missing", "u1"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u3", users[0].ID)
	assert.Equal(t, "u1", users[1].ID)
}

func TestUserRepositoryUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	u := seedUser(t, repo, "u1", "alice", "alice@example.com")

	img := "/uploads/avatars/u1/a.png"
	require.NoError(t, repo.UpdateProfile(ctx, u.ID, "alice2", &img))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Name)
	assert.Equal(t, img, got.Image)

	// Nil image keeps the existing one.
	require.NoError(t, repo.UpdateProfile(ctx, u.ID, "alice3", nil))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice3", got.Name)
	assert.Equal(t, img, got.Image)
}

func TestUserRepositoryListAllOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewGormUserRepository(newTestDB(t))

	seedUser(t, repo, "u2", "bob", "bob@example.com")
	seedUser(t, repo, "u1", "alice", "alice@example.com")
	seedUser(t, repo, "u3", "carol", "carol@example.com")

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
	assert.Equal(t, "u3", users[2].ID)
}
