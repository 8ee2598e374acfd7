package domain

import (
	"time"
)

// UserModel is the GORM model for the users table. The unique index on
// email is the authoritative guard against duplicate signups; the service
// layer's pre-check only decides which error surfaces first.
type UserModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Image        string    `gorm:"type:varchar(512)"`
	IsAdmin      bool      `gorm:"default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// ToDomain converts UserModel to domain User.
func (m *UserModel) ToDomain() *User {
	return &User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Image:        m.Image,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserToModel converts domain User to UserModel.
func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Image:        u.Image,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// RestaurantModel is the GORM model for the restaurants table.
type RestaurantModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Tel          string    `gorm:"type:varchar(50)"`
	Address      string    `gorm:"type:varchar(255)"`
	OpeningHours string    `gorm:"type:varchar(100)"`
	Description  string    `gorm:"type:text"`
	Image        string    `gorm:"type:varchar(512)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (RestaurantModel) TableName() string { return "restaurants" }

// ToDomain converts RestaurantModel to domain Restaurant.
func (m *RestaurantModel) ToDomain() *Restaurant {
	return &Restaurant{
		ID:           m.ID,
		Name:         m.Name,
		Tel:          m.Tel,
		Address:      m.Address,
		OpeningHours: m.OpeningHours,
		Description:  m.Description,
		Image:        m.Image,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// RestaurantToModel converts domain Restaurant to RestaurantModel.
func RestaurantToModel(r *Restaurant) *RestaurantModel {
	return &RestaurantModel{
		ID:           r.ID,
		Name:         r.Name,
		Tel:          r.Tel,
		Address:      r.Address,
		OpeningHours: r.OpeningHours,
		Description:  r.Description,
		Image:        r.Image,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Text         string    `gorm:"type:text;not null"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);not null;index"`
	RestaurantID string    `gorm:"column:restaurant_id;type:varchar(36);not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (CommentModel) TableName() string { return "comments" }

// ToDomain converts CommentModel to domain Comment.
func (m *CommentModel) ToDomain() *Comment {
	return &Comment{
		ID:           m.ID,
		Text:         m.Text,
		UserID:       m.UserID,
		RestaurantID: m.RestaurantID,
		CreatedAt:    m.CreatedAt,
	}
}

// FavoriteModel is the GORM model for the favorites table. The composite
// unique index admits at most one row per (user, restaurant) pair even
// under concurrent inserts.
type FavoriteModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uidx_favorite_pair"`
	RestaurantID string    `gorm:"column:restaurant_id;type:varchar(36);not null;uniqueIndex:uidx_favorite_pair"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (FavoriteModel) TableName() string { return "favorites" }

// LikeModel is the GORM model for the likes table. Same shape and
// uniqueness rule as favorites, independent relation.
type LikeModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uidx_like_pair"`
	RestaurantID string    `gorm:"column:restaurant_id;type:varchar(36);not null;uniqueIndex:uidx_like_pair"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (LikeModel) TableName() string { return "likes" }

// FollowshipModel is the GORM model for the followships table. Directed:
// (follower, following) and (following, follower) are distinct rows.
type FollowshipModel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	FollowerID  string    `gorm:"column:follower_id;type:varchar(36);not null;uniqueIndex:uidx_followship_pair"`
	FollowingID string    `gorm:"column:following_id;type:varchar(36);not null;uniqueIndex:uidx_followship_pair;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FollowshipModel) TableName() string { return "followships" }
