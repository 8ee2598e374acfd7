package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/smile19439/forum-express-grading/internal/audit"
	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/repository"
	"github.com/smile19439/forum-express-grading/pkg/jwt"
	"github.com/smile19439/forum-express-grading/pkg/log"
	"github.com/smile19439/forum-express-grading/pkg/storage"
)

// imageURLExpiry bounds presigned URLs when the storage backend needs them.
const imageURLExpiry = 7 * 24 * time.Hour

// userServiceImpl implements UserService.
type userServiceImpl struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	comments    repository.CommentRepository
	favorites   repository.RelationRepository
	follows     repository.RelationRepository
	tokens      *jwt.Manager
	files       storage.Storage
}

// NewUserService creates a new user service. favorites and follows must be
// the favorite- and followship-kind relation repositories.
func NewUserService(
	users repository.UserRepository,
	restaurants repository.RestaurantRepository,
	comments repository.CommentRepository,
	favorites repository.RelationRepository,
	follows repository.RelationRepository,
	tokens *jwt.Manager,
	files storage.Storage,
) UserService {
	return &userServiceImpl{
		users:       users,
		restaurants: restaurants,
		comments:    comments,
		favorites:   favorites,
		follows:     follows,
		tokens:      tokens,
		files:       files,
	}
}

// SignUp registers a new user. The password check runs before any write,
// so a mismatch never creates a row.
func (s *userServiceImpl) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	if req.Password != req.PasswordCheck {
		return nil, ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	audit.Log(ctx, audit.ActionSignUp, user.ID, "user signed up")

	resp := user.ToResponse()
	return &resp, nil
}

// Login authenticates a user and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			audit.LogWithDetail(ctx, audit.ActionLoginFailed, "", req.Email, "login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	access, refresh, accessExp, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Name, user.IsAdmin)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate tokens")
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// user row is re-read first so the new claims carry the current name,
// email, and admin flag rather than whatever the refresh token holds.
func (s *userServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		l.Warn().Err(err).Msg("refresh token rejected")
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	access, refresh, accessExp, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Name, user.IsAdmin)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, user.ID).Msg("failed to generate tokens")
		return nil, err
	}

	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExp,
	}, nil
}

// GetProfile aggregates a user's page: reviewed restaurants (deduplicated
// by restaurant, first occurrence kept), favorited restaurants, and the
// follow lists.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to get user")
		return nil, err
	}

	comments, err := s.comments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profileComments, err := s.dedupComments(ctx, comments)
	if err != nil {
		return nil, err
	}

	favoriteIDs, err := s.favorites.ListTargets(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorited, err := s.restaurantBriefs(ctx, favoriteIDs)
	if err != nil {
		return nil, err
	}

	followingIDs, err := s.follows.ListTargets(ctx, userID)
	if err != nil {
		return nil, err
	}
	followings, err := s.userBriefs(ctx, followingIDs)
	if err != nil {
		return nil, err
	}

	followerIDs, err := s.follows.ListActors(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.userBriefs(ctx, followerIDs)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		User:                 user.ToResponse(),
		Comments:             profileComments,
		FavoritedRestaurants: favorited,
		Followings:           followings,
		Followers:            followers,
	}, nil
}

// dedupComments keeps the first comment per restaurant in original order
// and joins the restaurant briefs.
func (s *userServiceImpl) dedupComments(ctx context.Context, comments []*domain.Comment) ([]domain.ProfileComment, error) {
	seen := make(map[string]bool, len(comments))
	deduped := make([]*domain.Comment, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		if seen[c.RestaurantID] {
			continue
		}
		seen[c.RestaurantID] = true
		deduped = append(deduped, c)
		ids = append(ids, c.RestaurantID)
	}

	restaurants, err := s.restaurants.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefByID := make(map[string]domain.RestaurantBrief, len(restaurants))
	for _, r := range restaurants {
		briefByID[r.ID] = r.Brief()
	}

	result := make([]domain.ProfileComment, 0, len(deduped))
	for _, c := range deduped {
		brief, ok := briefByID[c.RestaurantID]
		if !ok {
			// Restaurant vanished; skip the orphaned comment.
			continue
		}
		result = append(result, domain.ProfileComment{
			CommentID:  c.ID,
			Text:       c.Text,
			CreatedAt:  c.CreatedAt,
			Restaurant: brief,
		})
	}
	return result, nil
}

func (s *userServiceImpl) restaurantBriefs(ctx context.Context, ids []string) ([]domain.RestaurantBrief, error) {
	restaurants, err := s.restaurants.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefs := make([]domain.RestaurantBrief, len(restaurants))
	for i, r := range restaurants {
		briefs[i] = r.Brief()
	}
	return briefs, nil
}

func (s *userServiceImpl) userBriefs(ctx context.Context, ids []string) ([]domain.UserBrief, error) {
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	briefs := make([]domain.UserBrief, len(users))
	for i, u := range users {
		briefs[i] = domain.UserBrief{ID: u.ID, Name: u.Name, Image: u.Image}
	}
	return briefs, nil
}

// UpdateProfile edits the target user's name and optionally replaces the
// profile image. The ownership check runs first, then validation, then the
// target lookup, matching the error precedence callers rely on.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, requesterID, targetID, name string, image *ProfileImage) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	if requesterID != targetID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, targetID).Msg("failed to get user for update")
		return nil, err
	}

	var imageURL *string
	if image != nil {
		url, err := s.storeProfileImage(ctx, targetID, image)
		if err != nil {
			l.Error().Err(err).Str(log.FieldUserID, targetID).Msg("failed to store profile image")
			return nil, err
		}
		imageURL = &url
	}

	if err := s.users.UpdateProfile(ctx, targetID, name, imageURL); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, targetID).Msg("failed to update profile")
		return nil, err
	}

	audit.Log(ctx, audit.ActionUpdateProfile, targetID, "profile updated")

	user.Name = name
	if imageURL != nil {
		user.Image = *imageURL
	}
	resp := user.ToResponse()
	return &resp, nil
}

// storeProfileImage writes the upload and returns its resolved URL, which
// is what gets persisted on the user row.
func (s *userServiceImpl) storeProfileImage(ctx context.Context, userID string, image *ProfileImage) (string, error) {
	ext := ""
	if exts, err := mime.ExtensionsByType(image.ContentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.New().String(), ext)

	if err := s.files.Write(ctx, key, image.Reader, image.Size, image.ContentType); err != nil {
		return "", err
	}
	return s.files.GetURL(ctx, key, imageURLExpiry)
}

// Ensure interface is satisfied at compile time.
var _ UserService = (*userServiceImpl)(nil)
