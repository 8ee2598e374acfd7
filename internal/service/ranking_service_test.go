package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopUsersOrdering(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.rankingService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	carol := env.addUser(t, "u3", "carol")
	dave := env.addUser(t, "u4", "dave")

	// bob: 2 followers, carol: 1, alice and dave: 0.
	require.NoError(t, env.follows.Add(ctx, alice.ID, bob.ID))
	require.NoError(t, env.follows.Add(ctx, dave.ID, bob.ID))
	require.NoError(t, env.follows.Add(ctx, bob.ID, carol.ID))

	top, err := svc.TopUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, top, 4)

	assert.Equal(t, bob.ID, top[0].ID)
	assert.Equal(t, int64(2), top[0].FollowerCount)
	assert.Equal(t, carol.ID, top[1].ID)
	assert.Equal(t, int64(1), top[1].FollowerCount)

	// Zero-follower tie breaks on user id ascending.
	assert.Equal(t, alice.ID, top[2].ID)
	assert.Equal(t, dave.ID, top[3].ID)
}

func TestTopUsersIsFollowed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.rankingService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	carol := env.addUser(t, "u3", "carol")

	require.NoError(t, env.follows.Add(ctx, alice.ID, bob.ID))

	top, err := svc.TopUsers(ctx, alice.ID)
	require.NoError(t, err)

	flags := make(map[string]bool, len(top))
	for _, u := range top {
		flags[u.ID] = u.IsFollowed
	}
	assert.True(t, flags[bob.ID])
	assert.False(t, flags[carol.ID])
	assert.False(t, flags[alice.ID])

	// The flag must agree with the reverse derivation: a user is followed
	// by the requester exactly when the requester appears in that user's
	// follower list.
	for _, u := range top {
		actors, err := env.follows.ListActors(ctx, u.ID)
		require.NoError(t, err)
		followedByRequester := false
		for _, actorID := range actors {
			if actorID == alice.ID {
				followedByRequester = true
			}
		}
		assert.Equal(t, followedByRequester, u.IsFollowed, "flag disagrees for user %s", u.ID)
	}
}

func TestFollowerCountCacheMiss(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	counts := newFakeFollowerStore()
	svc := env.rankingService(counts)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	require.NoError(t, env.follows.Add(ctx, alice.ID, bob.ID))

	count, err := svc.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Miss backfills the cache and records the access for hot-key ranking.
	cached, hit, err := counts.GetFollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(1), cached)
	assert.Contains(t, counts.accesses, bob.ID)
}

func TestFollowerCountCacheHit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	counts := newFakeFollowerStore()
	svc := env.rankingService(counts)

	bob := env.addUser(t, "u1", "bob")

	// A stale cached value is served as-is until the reconciler fixes it.
	require.NoError(t, counts.SetFollowerCount(ctx, bob.ID, 42))

	count, err := svc.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestFollowerCountUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.rankingService(nil).FollowerCount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowerCountWithoutCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.rankingService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	require.NoError(t, env.follows.Add(ctx, alice.ID, bob.ID))

	count, err := svc.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTopRestaurants(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.rankingService(nil)

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	env.addRestaurant(t, "r1", "First")
	env.addRestaurant(t, "r2", "Second")
	env.addRestaurant(t, "r3", "Third")

	require.NoError(t, env.favorites.Add(ctx, alice.ID, "r2"))
	require.NoError(t, env.favorites.Add(ctx, bob.ID, "r2"))
	require.NoError(t, env.favorites.Add(ctx, alice.ID, "r3"))

	top, err := svc.TopRestaurants(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "r2", top[0].ID)
	assert.Equal(t, int64(2), top[0].FavoriteCount)
	assert.True(t, top[0].IsFavorited)
	assert.Equal(t, "r3", top[1].ID)
	assert.True(t, top[1].IsFavorited)

	// Anonymous requester gets no favorite flags.
	top, err = svc.TopRestaurants(ctx, "", 10)
	require.NoError(t, err)
	assert.False(t, top[0].IsFavorited)
}

func TestTopRestaurantsLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.rankingService(nil)

	alice := env.addUser(t, "u1", "alice")
	for _, id := range []string{"r1", "r2", "r3"} {
		env.addRestaurant(t, id, id)
		require.NoError(t, env.favorites.Add(ctx, alice.ID, id))
	}

	top, err := svc.TopRestaurants(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}
