package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smile19439/forum-express-grading/internal/domain"
)

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	user, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Name)

	// The stored hash must verify against the original password.
	stored, err := env.users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestSignUpPasswordMismatchCreatesNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	_, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "different",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = env.users.GetByEmail(ctx, "alice@example.com")
	assert.Error(t, err, "mismatch must not create a user row")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	req := &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	}
	_, err := svc.SignUp(ctx, req)
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	_, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	})
	require.NoError(t, err)

	auth, err := svc.Login(ctx, &domain.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "alice", auth.User.Name)

	claims, err := env.tokens.ValidateToken(auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	_, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email reports the same error as a wrong password.
	_, err = svc.Login(ctx, &domain.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenKeepsClaimsCurrent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	_, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	})
	require.NoError(t, err)

	auth, err := svc.Login(ctx, &domain.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	// The refresh token only carries the user id; the refreshed access
	// token must still identify the user fully.
	refreshed, err := svc.RefreshToken(ctx, auth.RefreshToken)
	require.NoError(t, err)

	claims, err := env.tokens.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Name)

	// A name change lands in the next refreshed token.
	_, err = svc.UpdateProfile(ctx, auth.User.ID, auth.User.ID, "alice cooper", nil)
	require.NoError(t, err)

	refreshed, err = svc.RefreshToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
	claims, err = env.tokens.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice cooper", claims.Name)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	_, err := svc.SignUp(ctx, &domain.SignUpRequest{
		Name:          "alice",
		Email:         "alice@example.com",
		Password:      "secret123",
		PasswordCheck: "secret123",
	})
	require.NoError(t, err)

	auth, err := svc.Login(ctx, &domain.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetProfileDedupsCommentsByRestaurant(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")
	env.addRestaurant(t, "r1", "First Diner")
	env.addRestaurant(t, "r2", "Second Diner")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.addComment(t, alice.ID, "r1", "first visit", base)
	env.addComment(t, alice.ID, "r2", "tried the pasta", base.Add(time.Minute))
	env.addComment(t, alice.ID, "r1", "second visit", base.Add(2*time.Minute))

	profile, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)

	// One entry per restaurant, first occurrence kept, original order.
	require.Len(t, profile.Comments, 2)
	assert.Equal(t, "r1", profile.Comments[0].Restaurant.ID)
	assert.Equal(t, "first visit", profile.Comments[0].Text)
	assert.Equal(t, "r2", profile.Comments[1].Restaurant.ID)
}

func TestGetProfileIncludesRelations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")
	carol := env.addUser(t, "u3", "carol")
	env.addRestaurant(t, "r1", "Diner")

	require.NoError(t, env.favorites.Add(ctx, alice.ID, "r1"))
	require.NoError(t, env.follows.Add(ctx, alice.ID, bob.ID))
	require.NoError(t, env.follows.Add(ctx, carol.ID, alice.ID))

	profile, err := svc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)

	require.Len(t, profile.FavoritedRestaurants, 1)
	assert.Equal(t, "r1", profile.FavoritedRestaurants[0].ID)
	require.Len(t, profile.Followings, 1)
	assert.Equal(t, bob.ID, profile.Followings[0].ID)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, carol.ID, profile.Followers[0].ID)
}

func TestGetProfileUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.userService().GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")

	user, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, "alice cooper", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice cooper", user.Name)
}

func TestUpdateProfileForbiddenForOtherUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")
	bob := env.addUser(t, "u2", "bob")

	_, err := svc.UpdateProfile(ctx, alice.ID, bob.ID, "hijacked", nil)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := env.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Name)
}

func TestUpdateProfileRequiresName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")

	_, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdateProfileStoresImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := env.userService()

	alice := env.addUser(t, "u1", "alice")

	img := &ProfileImage{
		Reader:      strings.NewReader("fake image bytes"),
		Size:        16,
		ContentType: "image/png",
	}
	user, err := svc.UpdateProfile(ctx, alice.ID, alice.ID, "alice", img)
	require.NoError(t, err)
	assert.NotEmpty(t, user.Image)

	// A later name-only update keeps the image.
	user, err = svc.UpdateProfile(ctx, alice.ID, alice.ID, "alice v2", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, user.Image)
}
