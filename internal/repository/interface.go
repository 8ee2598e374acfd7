package repository

import (
	"context"
	"errors"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRelationNotFound   = errors.New("relation not found")
	ErrRelationExists     = errors.New("relation already exists")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	// UpdateProfile updates the name and, when image is non-nil, the image
	// key. A nil image leaves the stored image untouched.
	UpdateProfile(ctx context.Context, id, name string, image *string) error
}

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Restaurant, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Restaurant, error)
	ListNewest(ctx context.Context, limit int) ([]*domain.Restaurant, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// CommentRepository defines persistence operations for comments.
// The API only reads comments; Create exists for the seeder.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Comment, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.Comment, error)
	ListNewest(ctx context.Context, limit int) ([]*domain.Comment, error)
}

// RelationRepository defines persistence operations for one relation kind
// (favorite, like, or followship). One implementation serves all three,
// instantiated per kind.
type RelationRepository interface {
	// Kind reports which relation this repository serves.
	Kind() domain.RelationKind
	// Add inserts the (actor, target) row. A duplicate pair fails with
	// ErrRelationExists, backed by the table's composite unique index.
	Add(ctx context.Context, actorID, targetID string) error
	// Remove deletes the (actor, target) row; ErrRelationNotFound when the
	// row does not exist.
	Remove(ctx context.Context, actorID, targetID string) error
	Exists(ctx context.Context, actorID, targetID string) (bool, error)
	// ListTargets returns the target ids associated with the actor in
	// insertion order.
	ListTargets(ctx context.Context, actorID string) ([]string, error)
	// ListActors returns the actor ids associated with the target in
	// insertion order.
	ListActors(ctx context.Context, targetID string) ([]string, error)
	// CountActors returns how many actors point at the target.
	CountActors(ctx context.Context, targetID string) (int64, error)
	// CountActorsAll returns actor counts grouped by target in one query.
	// Targets with zero rows are absent from the map.
	CountActorsAll(ctx context.Context) (map[string]int64, error)
}
