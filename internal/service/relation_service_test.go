package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	exists, err := env.follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFollowTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, bob.ID), ErrAlreadyExists)
}

func TestFollowSelf(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), ErrSelfFollow)
}

func TestFollowUnknownTarget(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, "missing"), ErrUserNotFound)
}

func TestUnfollowAbsent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")

	assert.ErrorIs(t, svc.Unfollow(ctx, alice.ID, bob.ID), ErrNotFound)
}

func TestFollowAdjustsCachedCount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	counts := newFakeFollowerStore()
	svc := env.relationService(counts)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	carol := env.addUser(t, "u3", "carol")

	// Uncached key stays uncached: the conditional incr is a no-op.
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	_, hit, err := counts.GetFollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, hit)

	// A cached key tracks follow and unfollow.
	require.NoError(t, counts.SetFollowerCount(ctx, bob.ID, 1))
	require.NoError(t, svc.Follow(ctx, carol.ID, bob.ID))
	count, _, err := counts.GetFollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.Unfollow(ctx, carol.ID, bob.ID))
	count, _, err = counts.GetFollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddFavorite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "Diner")

	require.NoError(t, svc.AddFavorite(ctx, alice.ID, "r1"))
	assert.ErrorIs(t, svc.AddFavorite(ctx, alice.ID, "r1"), ErrAlreadyExists)
}

func TestAddFavoriteUnknownRestaurant(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")

	// Missing target wins over any duplicate consideration.
	assert.ErrorIs(t, svc.AddFavorite(ctx, alice.ID, "missing"), ErrRestaurantNotFound)
	assert.ErrorIs(t, svc.AddLike(ctx, alice.ID, "missing"), ErrRestaurantNotFound)
}

func TestRemoveFavoriteAbsent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "Diner")

	assert.ErrorIs(t, svc.RemoveFavorite(ctx, alice.ID, "r1"), ErrNotFound)
}

func TestLikeIndependentOfFavorite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.relationService(nil)

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "Diner")

	require.NoError(t, svc.AddFavorite(ctx, alice.ID, "r1"))
	require.NoError(t, svc.AddLike(ctx, alice.ID, "r1"))
	require.NoError(t, svc.RemoveFavorite(ctx, alice.ID, "r1"))

	liked, err := env.likes.Exists(ctx, alice.ID, "r1")
	require.NoError(t, err)
	assert.True(t, liked)
}
