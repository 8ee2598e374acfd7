package service

import (
	"context"
	"errors"

	"github.com/smile19439/forum-express-grading/internal/audit"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/internal/store"
	"github.com/smile19439/forum-express-grading/pkg/log"
)

// relationServiceImpl implements RelationService on top of the kind-scoped
// relation repositories. Target existence is checked before the insert so a
// missing target reports NotFound rather than Conflict.
type relationServiceImpl struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	favorites   repository.RelationRepository
	likes       repository.RelationRepository
	follows     repository.RelationRepository
	counts      store.FollowerStore
}

// NewRelationService creates a new relation service. counts may be nil when
// no follower-count cache is configured.
func NewRelationService(
	users repository.UserRepository,
	restaurants repository.RestaurantRepository,
	favorites repository.RelationRepository,
	likes repository.RelationRepository,
	follows repository.RelationRepository,
	counts store.FollowerStore,
) RelationService {
	return &relationServiceImpl{
		users:       users,
		restaurants: restaurants,
		favorites:   favorites,
		likes:       likes,
		follows:     follows,
		counts:      counts,
	}
}

func (s *relationServiceImpl) AddFavorite(ctx context.Context, userID, restaurantID string) error {
	return s.addRestaurantRelation(ctx, s.favorites, audit.ActionAddFavorite, userID, restaurantID)
}

func (s *relationServiceImpl) RemoveFavorite(ctx context.Context, userID, restaurantID string) error {
	return s.removeRelation(ctx, s.favorites, audit.ActionRemoveFavorite, userID, restaurantID)
}

func (s *relationServiceImpl) AddLike(ctx context.Context, userID, restaurantID string) error {
	return s.addRestaurantRelation(ctx, s.likes, audit.ActionAddLike, userID, restaurantID)
}

func (s *relationServiceImpl) RemoveLike(ctx context.Context, userID, restaurantID string) error {
	return s.removeRelation(ctx, s.likes, audit.ActionRemoveLike, userID, restaurantID)
}

// Follow records follower -> following. Self-follow is rejected outright.
func (s *relationServiceImpl) Follow(ctx context.Context, followerID, followingID string) error {
	l := log.Ctx(ctx)

	if followerID == followingID {
		return ErrSelfFollow
	}

	exists, err := s.users.Exists(ctx, followingID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldTargetID, followingID).Msg("failed to check follow target")
		return err
	}
	if !exists {
		return ErrUserNotFound
	}

	if err := s.follows.Add(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return ErrAlreadyExists
		}
		l.Error().Err(err).
			Str(log.FieldUserID, followerID).
			Str(log.FieldTargetID, followingID).
			Msg("failed to add followship")
		return err
	}

	s.bumpFollowerCount(ctx, followingID, +1)
	audit.LogTarget(ctx, audit.ActionFollow, followerID, followingID, "followship added")
	return nil
}

func (s *relationServiceImpl) Unfollow(ctx context.Context, followerID, followingID string) error {
	l := log.Ctx(ctx)

	if err := s.follows.Remove(ctx, followerID, followingID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return ErrNotFound
		}
		l.Error().Err(err).
			Str(log.FieldUserID, followerID).
			Str(log.FieldTargetID, followingID).
			Msg("failed to remove followship")
		return err
	}

	s.bumpFollowerCount(ctx, followingID, -1)
	audit.LogTarget(ctx, audit.ActionUnfollow, followerID, followingID, "followship removed")
	return nil
}

// addRestaurantRelation inserts a user->restaurant edge after verifying the
// restaurant exists.
func (s *relationServiceImpl) addRestaurantRelation(ctx context.Context, repo repository.RelationRepository, action string, userID, restaurantID string) error {
	l := log.Ctx(ctx)

	exists, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldRestaurantID, restaurantID).Msg("failed to check restaurant")
		return err
	}
	if !exists {
		return ErrRestaurantNotFound
	}

	if err := repo.Add(ctx, userID, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRelationExists) {
			return ErrAlreadyExists
		}
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldRestaurantID, restaurantID).
			Str(log.FieldRelationKind, string(repo.Kind())).
			Msg("failed to add relation")
		return err
	}

	audit.LogTarget(ctx, action, userID, restaurantID, "relation added")
	return nil
}

func (s *relationServiceImpl) removeRelation(ctx context.Context, repo repository.RelationRepository, action string, userID, targetID string) error {
	l := log.Ctx(ctx)

	if err := repo.Remove(ctx, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrRelationNotFound) {
			return ErrNotFound
		}
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldTargetID, targetID).
			Str(log.FieldRelationKind, string(repo.Kind())).
			Msg("failed to remove relation")
		return err
	}

	audit.LogTarget(ctx, action, userID, targetID, "relation removed")
	return nil
}

// bumpFollowerCount nudges the cached counter. Best effort: the cache is
// reconciled periodically, so a failure here is logged and ignored.
func (s *relationServiceImpl) bumpFollowerCount(ctx context.Context, userID string, delta int) {
	if s.counts == nil {
		return
	}
	var err error
	if delta > 0 {
		err = s.counts.CondIncrFollowerCount(ctx, userID)
	} else {
		err = s.counts.CondDecrFollowerCount(ctx, userID)
	}
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("failed to adjust cached follower count")
	}
}

var _ RelationService = (*relationServiceImpl)(nil)
