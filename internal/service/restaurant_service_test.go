package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantList(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.restaurantService()

	for _, id := range []string{"r1", "r2", "r3"} {
		env.addRestaurant(t, id, id)
	}

	page1, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "r1", page1[0].ID)

	page2, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "r3", page2[0].ID)

	// Out-of-range paging values fall back to defaults.
	all, err := svc.List(ctx, 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRestaurantGet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.restaurantService()

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "Diner")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.addComment(t, alice.ID, "r1", "older", base)
	env.addComment(t, alice.ID, "r1", "newer", base.Add(time.Minute))

	require.NoError(t, env.favorites.Add(ctx, alice.ID, "r1"))

	detail, err := svc.Get(ctx, alice.ID, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Diner", detail.Restaurant.Name)
	assert.True(t, detail.IsFavorited)
	assert.False(t, detail.IsLiked)

	// Reviews come newest first with their authors resolved.
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "newer", detail.Comments[0].Text)
	assert.Equal(t, "alice", detail.Comments[0].User.Name)
}

func TestRestaurantGetAnonymous(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.restaurantService()

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "Diner")
	require.NoError(t, env.favorites.Add(ctx, alice.ID, "r1"))

	detail, err := svc.Get(ctx, "", "r1")
	require.NoError(t, err)
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsLiked)
}

func TestRestaurantGetUnknown(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.restaurantService().Get(context.Background(), "", "missing")
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestRestaurantFeeds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.restaurantService()

	alice := env.addUser(t, "u1", "alice")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		r := env.addRestaurant(t, "r"+id, "Restaurant "+id)
		env.addComment(t, alice.ID, r.ID, "review of "+id, base.Add(time.Duration(i)*time.Minute))
	}

	feeds, err := svc.Feeds(ctx)
	require.NoError(t, err)

	assert.Len(t, feeds.Restaurants, 10)
	require.Len(t, feeds.Comments, 10)

	// Newest comment first, with user and restaurant attached.
	assert.Equal(t, "review of l", feeds.Comments[0].Text)
	assert.Equal(t, "alice", feeds.Comments[0].User.Name)
	assert.Equal(t, "rl", feeds.Comments[0].Restaurant.ID)
}
