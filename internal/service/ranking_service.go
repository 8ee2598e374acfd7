package service

import (
	"context"
	"errors"
	"sort"

	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/internal/store"
	"github.com/smile19439/forum-express-grading/pkg/log"
)

// rankingServiceImpl implements RankingService. Rankings are computed from
// the relational store; the Redis cache only serves single follower-count
// lookups.
type rankingServiceImpl struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	favorites   repository.RelationRepository
	follows     repository.RelationRepository
	counts      store.FollowerStore
}

// NewRankingService creates a new ranking service. counts may be nil,
// in which case FollowerCount always hits the database.
func NewRankingService(
	users repository.UserRepository,
	restaurants repository.RestaurantRepository,
	favorites repository.RelationRepository,
	follows repository.RelationRepository,
	counts store.FollowerStore,
) RankingService {
	return &rankingServiceImpl{
		users:       users,
		restaurants: restaurants,
		favorites:   favorites,
		follows:     follows,
		counts:      counts,
	}
}

// TopUsers returns every user ordered by follower count descending.
// Ties break on user id ascending, which ListAll already guarantees, so a
// stable sort on count alone is enough.
func (s *rankingServiceImpl) TopUsers(ctx context.Context, requesterID string) ([]domain.TopUser, error) {
	l := log.Ctx(ctx)

	users, err := s.users.ListAll(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to list users")
		return nil, err
	}

	counts, err := s.follows.CountActorsAll(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to count followers")
		return nil, err
	}

	followed := make(map[string]bool)
	if requesterID != "" {
		followingIDs, err := s.follows.ListTargets(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		for _, id := range followingIDs {
			followed[id] = true
		}
	}

	top := make([]domain.TopUser, len(users))
	for i, u := range users {
		top[i] = domain.TopUser{
			UserResponse:  u.ToResponse(),
			FollowerCount: counts[u.ID],
			IsFollowed:    followed[u.ID],
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].FollowerCount > top[j].FollowerCount
	})
	return top, nil
}

// FollowerCount returns one user's follower count, cache-aside. Cache
// failures fall through to the database.
func (s *rankingServiceImpl) FollowerCount(ctx context.Context, userID string) (int64, error) {
	l := log.Ctx(ctx)

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	if s.counts != nil {
		if err := s.counts.RecordAccess(ctx, userID); err != nil {
			l.Debug().Err(err).Str(log.FieldUserID, userID).Msg("failed to record hot key access")
		}

		count, hit, err := s.counts.GetFollowerCount(ctx, userID)
		if err != nil {
			l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("follower count cache read failed")
		} else if hit {
			return count, nil
		}
	}

	count, err := s.follows.CountActors(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to count followers")
		return 0, err
	}

	if s.counts != nil {
		if err := s.counts.SetFollowerCount(ctx, userID, count); err != nil {
			l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to backfill follower count cache")
		}
	}
	return count, nil
}

// TopRestaurants returns the limit most-favorited restaurants, favorite
// count descending with ties on restaurant id ascending.
func (s *rankingServiceImpl) TopRestaurants(ctx context.Context, requesterID string, limit int) ([]domain.TopRestaurant, error) {
	l := log.Ctx(ctx)

	counts, err := s.favorites.CountActorsAll(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to count favorites")
		return nil, err
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	restaurants, err := s.restaurants.GetByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	favorited := make(map[string]bool)
	if requesterID != "" {
		favoriteIDs, err := s.favorites.ListTargets(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		for _, id := range favoriteIDs {
			favorited[id] = true
		}
	}

	top := make([]domain.TopRestaurant, len(restaurants))
	for i, r := range restaurants {
		top[i] = domain.TopRestaurant{
			Restaurant:    *r,
			FavoriteCount: counts[r.ID],
			IsFavorited:   favorited[r.ID],
		}
	}
	return top, nil
}

var _ RankingService = (*rankingServiceImpl)(nil)
