package service

import (
	"context"
	"errors"
	"io"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrForbidden          = errors.New("cannot edit another user's profile")
	ErrNameRequired       = errors.New("user name is required")
	ErrAlreadyExists      = errors.New("relation already exists")
	ErrNotFound           = errors.New("relation not found")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)

// ProfileImage carries an uploaded profile image. Size is -1 when unknown.
type ProfileImage struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// UserService defines signup, login, and profile operations.
type UserService interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.UserResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	// UpdateProfile edits the target user's name and, when image is
	// non-nil, replaces the profile image. Only the owner may edit:
	// requesterID must equal targetID.
	UpdateProfile(ctx context.Context, requesterID, targetID, name string, image *ProfileImage) (*domain.UserResponse, error)
}

// RelationService defines favorite, like, and follow operations. Target
// existence is checked before the insert, so a missing target always
// reports not-found ahead of already-exists.
type RelationService interface {
	AddFavorite(ctx context.Context, userID, restaurantID string) error
	RemoveFavorite(ctx context.Context, userID, restaurantID string) error
	AddLike(ctx context.Context, userID, restaurantID string) error
	RemoveLike(ctx context.Context, userID, restaurantID string) error
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
}

// RankingService defines leaderboard and counter operations.
type RankingService interface {
	// TopUsers returns every user ordered by follower count descending,
	// ties broken by user id ascending, annotated with whether the
	// requester already follows each entry.
	TopUsers(ctx context.Context, requesterID string) ([]domain.TopUser, error)
	// FollowerCount returns a user's follower count, cache-aside through
	// the Redis follower store.
	FollowerCount(ctx context.Context, userID string) (int64, error)
	// TopRestaurants returns the most favorited restaurants, annotated
	// with whether the requester already favorited each entry.
	TopRestaurants(ctx context.Context, requesterID string, limit int) ([]domain.TopRestaurant, error)
}

// RestaurantService defines read-only restaurant browsing operations.
type RestaurantService interface {
	List(ctx context.Context, page, pageSize int) ([]domain.Restaurant, error)
	Get(ctx context.Context, requesterID, restaurantID string) (*domain.RestaurantDetail, error)
	Feeds(ctx context.Context) (*domain.Feeds, error)
}
