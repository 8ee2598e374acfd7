package service

import (
	"context"
	"errors"

	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/pkg/log"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	feedLimit       = 10
)

// restaurantServiceImpl implements RestaurantService.
type restaurantServiceImpl struct {
	restaurants repository.RestaurantRepository
	comments    repository.CommentRepository
	users       repository.UserRepository
	favorites   repository.RelationRepository
	likes       repository.RelationRepository
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(
	restaurants repository.RestaurantRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	favorites repository.RelationRepository,
	likes repository.RelationRepository,
) RestaurantService {
	return &restaurantServiceImpl{
		restaurants: restaurants,
		comments:    comments,
		users:       users,
		favorites:   favorites,
		likes:       likes,
	}
}

// List returns one page of restaurants. Page numbers start at 1; out of
// range values fall back to the defaults.
func (s *restaurantServiceImpl) List(ctx context.Context, page, pageSize int) ([]domain.Restaurant, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	restaurants, err := s.restaurants.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to list restaurants")
		return nil, err
	}

	result := make([]domain.Restaurant, len(restaurants))
	for i, r := range restaurants {
		result[i] = *r
	}
	return result, nil
}

// Get returns a restaurant with its reviews in newest-first order, plus the
// requester's favorite/like flags. An empty requesterID leaves both false.
func (s *restaurantServiceImpl) Get(ctx context.Context, requesterID, restaurantID string) (*domain.RestaurantDetail, error) {
	l := log.Ctx(ctx)

	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		l.Error().Err(err).Str(log.FieldRestaurantID, restaurantID).Msg("failed to get restaurant")
		return nil, err
	}

	comments, err := s.comments.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	userBriefs, err := s.commentAuthors(ctx, comments)
	if err != nil {
		return nil, err
	}

	restaurantComments := make([]domain.RestaurantComment, 0, len(comments))
	for _, c := range comments {
		restaurantComments = append(restaurantComments, domain.RestaurantComment{
			ID:        c.ID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			User:      userBriefs[c.UserID],
		})
	}

	detail := &domain.RestaurantDetail{
		Restaurant: *restaurant,
		Comments:   restaurantComments,
	}

	if requesterID != "" {
		if detail.IsFavorited, err = s.favorites.Exists(ctx, requesterID, restaurantID); err != nil {
			return nil, err
		}
		if detail.IsLiked, err = s.likes.Exists(ctx, requesterID, restaurantID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// Feeds returns the ten newest restaurants and the ten newest reviews.
func (s *restaurantServiceImpl) Feeds(ctx context.Context) (*domain.Feeds, error) {
	l := log.Ctx(ctx)

	restaurants, err := s.restaurants.ListNewest(ctx, feedLimit)
	if err != nil {
		l.Error().Err(err).Msg("failed to list newest restaurants")
		return nil, err
	}

	comments, err := s.comments.ListNewest(ctx, feedLimit)
	if err != nil {
		l.Error().Err(err).Msg("failed to list newest comments")
		return nil, err
	}

	userBriefs, err := s.commentAuthors(ctx, comments)
	if err != nil {
		return nil, err
	}

	restaurantIDs := make([]string, 0, len(comments))
	seen := make(map[string]bool, len(comments))
	for _, c := range comments {
		if !seen[c.RestaurantID] {
			seen[c.RestaurantID] = true
			restaurantIDs = append(restaurantIDs, c.RestaurantID)
		}
	}
	commentRestaurants, err := s.restaurants.GetByIDs(ctx, restaurantIDs)
	if err != nil {
		return nil, err
	}
	briefByID := make(map[string]domain.RestaurantBrief, len(commentRestaurants))
	for _, r := range commentRestaurants {
		briefByID[r.ID] = r.Brief()
	}

	feeds := &domain.Feeds{
		Restaurants: make([]domain.Restaurant, len(restaurants)),
		Comments:    make([]domain.FeedComment, 0, len(comments)),
	}
	for i, r := range restaurants {
		feeds.Restaurants[i] = *r
	}
	for _, c := range comments {
		feeds.Comments = append(feeds.Comments, domain.FeedComment{
			ID:         c.ID,
			Text:       c.Text,
			CreatedAt:  c.CreatedAt,
			User:       userBriefs[c.UserID],
			Restaurant: briefByID[c.RestaurantID],
		})
	}
	return feeds, nil
}

// commentAuthors batch-fetches the authors of a comment list as briefs
// keyed by user id.
func (s *restaurantServiceImpl) commentAuthors(ctx context.Context, comments []*domain.Comment) (map[string]domain.UserBrief, error) {
	ids := make([]string, 0, len(comments))
	seen := make(map[string]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefs := make(map[string]domain.UserBrief, len(users))
	for _, u := range users {
		briefs[u.ID] = domain.UserBrief{ID: u.ID, Name: u.Name, Image: u.Image}
	}
	return briefs, nil
}

var _ RestaurantService = (*restaurantServiceImpl)(nil)
