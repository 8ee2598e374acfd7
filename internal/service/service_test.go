package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/pkg/jwt"
	"github.com/smile19439/forum-express-grading/pkg/storage"
)

// testEnv wires real repositories over an in-memory database so service
// tests exercise the full stack below the HTTP layer.
type testEnv struct {
	db          *gorm.DB
	users       *repository.GormUserRepository
	restaurants *repository.GormRestaurantRepository
	comments    *repository.GormCommentRepository
	favorites   *repository.GormRelationRepository
	likes       *repository.GormRelationRepository
	follows     *repository.GormRelationRepository
	tokens      *jwt.Manager
	files       storage.Storage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.RestaurantModel{},
		&domain.CommentModel{},
		&domain.FavoriteModel{},
		&domain.LikeModel{},
		&domain.FollowshipModel{},
	))

	favorites, err := repository.NewGormRelationRepository(db, domain.RelationFavorite)
	require.NoError(t, err)
	likes, err := repository.NewGormRelationRepository(db, domain.RelationLike)
	require.NoError(t, err)
	follows, err := repository.NewGormRelationRepository(db, domain.RelationFollowship)
	require.NoError(t, err)

	tokens, err := jwt.NewManager(15*time.Minute, time.Hour, "test")
	require.NoError(t, err)

	files, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	return &testEnv{
		db:          db,
		users:       repository.NewGormUserRepository(db),
		restaurants: repository.NewGormRestaurantRepository(db),
		comments:    repository.NewGormCommentRepository(db),
		favorites:   favorites,
		likes:       likes,
		follows:     follows,
		tokens:      tokens,
		files:       files,
	}
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.users, e.restaurants, e.comments, e.favorites, e.follows, e.tokens, e.files)
}

func (e *testEnv) relationService(counts *fakeFollowerStore) RelationService {
	if counts == nil {
		return NewRelationService(e.users, e.restaurants, e.favorites, e.likes, e.follows, nil)
	}
	return NewRelationService(e.users, e.restaurants, e.favorites, e.likes, e.follows, counts)
}

func (e *testEnv) rankingService(counts *fakeFollowerStore) RankingService {
	if counts == nil {
		return NewRankingService(e.users, e.restaurants, e.favorites, e.follows, nil)
	}
	return NewRankingService(e.users, e.restaurants, e.favorites, e.follows, counts)
}

func (e *testEnv) restaurantService() RestaurantService {
	return NewRestaurantService(e.restaurants, e.comments, e.users, e.favorites, e.likes)
}

func (e *testEnv) addUser(t *testing.T, id, name string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) addRestaurant(t *testing.T, id, name string) *domain.Restaurant {
	t.Helper()
	r := &domain.Restaurant{ID: id, Name: name}
	require.NoError(t, e.restaurants.Create(context.Background(), r))
	return r
}

func (e *testEnv) addComment(t *testing.T, userID, restaurantID, text string, at time.Time) *domain.Comment {
	t.Helper()
	c := &domain.Comment{Text: text, UserID: userID, RestaurantID: restaurantID, CreatedAt: at}
	require.NoError(t, e.comments.Create(context.Background(), c))
	return c
}

// fakeFollowerStore is an in-memory stand-in for the Redis follower store.
type fakeFollowerStore struct {
	counts   map[string]int64
	accesses []string
}

func newFakeFollowerStore() *fakeFollowerStore {
	return &fakeFollowerStore{counts: make(map[string]int64)}
}

func (f *fakeFollowerStore) GetFollowerCount(ctx context.Context, userID string) (int64, bool, error) {
	count, ok := f.counts[userID]
	return count, ok, nil
}

func (f *fakeFollowerStore) SetFollowerCount(ctx context.Context, userID string, count int64) error {
	f.counts[userID] = count
	return nil
}

func (f *fakeFollowerStore) CondIncrFollowerCount(ctx context.Context, userID string) error {
	if _, ok := f.counts[userID]; ok {
		f.counts[userID]++
	}
	return nil
}

func (f *fakeFollowerStore) CondDecrFollowerCount(ctx context.Context, userID string) error {
	if _, ok := f.counts[userID]; ok {
		f.counts[userID]--
	}
	return nil
}

func (f *fakeFollowerStore) RecordAccess(ctx context.Context, userID string) error {
	f.accesses = append(f.accesses, userID)
	return nil
}

func (f *fakeFollowerStore) GetTopHotKeys(ctx context.Context, n int64) ([]string, error) {
	keys := make([]string, 0, len(f.accesses))
	seen := make(map[string]bool)
	for _, id := range f.accesses {
		if !seen[id] {
			seen[id] = true
			keys = append(keys, id)
		}
	}
	return keys, nil
}

func (f *fakeFollowerStore) ResetHotKeyScores(ctx context.Context) error {
	f.accesses = nil
	return nil
}

func (f *fakeFollowerStore) Close() error { return nil }
