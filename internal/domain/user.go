package domain

import (
	"time"
)

// User represents a user entity.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image,omitempty"` // storage key, may be empty
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignUpRequest represents a signup request.
type SignUpRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	PasswordCheck string `json:"password_check" binding:"required"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the editable profile fields. The image, if
// any, arrives as a multipart file and is handled separately by the handler.
type UpdateProfileRequest struct {
	Name string `form:"name"`
}

// AuthResponse represents an authentication response with tokens.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    int64        `json:"expires_at"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// UserBrief is the id+image shape used in profile follow/favorite lists.
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ProfileComment is one reviewed restaurant on a profile page. Comments are
// deduplicated by restaurant before this shape is built.
type ProfileComment struct {
	CommentID  string          `json:"comment_id"`
	Text       string          `json:"text"`
	CreatedAt  time.Time       `json:"created_at"`
	Restaurant RestaurantBrief `json:"restaurant"`
}

// Profile aggregates everything shown on a user's profile page.
type Profile struct {
	User                 UserResponse      `json:"user"`
	Comments             []ProfileComment  `json:"comments"`
	FavoritedRestaurants []RestaurantBrief `json:"favorited_restaurants"`
	Followings           []UserBrief       `json:"followings"`
	Followers            []UserBrief       `json:"followers"`
}

// TopUser is one leaderboard entry.
type TopUser struct {
	UserResponse
	FollowerCount int64 `json:"follower_count"`
	IsFollowed    bool  `json:"is_followed"`
}
