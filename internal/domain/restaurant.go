package domain

import (
	"time"
)

// Restaurant represents a restaurant entity. This service never mutates
// restaurants outside of seeding.
type Restaurant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Tel          string    `json:"tel,omitempty"`
	Address      string    `json:"address,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RestaurantBrief is the id+image shape used in profile aggregation.
type RestaurantBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Brief returns the RestaurantBrief shape of r.
func (r *Restaurant) Brief() RestaurantBrief {
	return RestaurantBrief{ID: r.ID, Name: r.Name, Image: r.Image}
}

// Comment is a user's review of a restaurant. Read-only in the API; the
// seeder is the only writer.
type Comment struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// RestaurantComment is one review on a restaurant detail page.
type RestaurantComment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	User      UserBrief `json:"user"`
}

// RestaurantDetail is a restaurant plus its reviews and the requester's
// relation flags.
type RestaurantDetail struct {
	Restaurant  Restaurant          `json:"restaurant"`
	Comments    []RestaurantComment `json:"comments"`
	IsFavorited bool                `json:"is_favorited"`
	IsLiked     bool                `json:"is_liked"`
}

// FeedComment is one entry in the newest-comments feed.
type FeedComment struct {
	ID         string          `json:"id"`
	Text       string          `json:"text"`
	CreatedAt  time.Time       `json:"created_at"`
	User       UserBrief       `json:"user"`
	Restaurant RestaurantBrief `json:"restaurant"`
}

// Feeds bundles the newest restaurants and comments.
type Feeds struct {
	Restaurants []Restaurant  `json:"restaurants"`
	Comments    []FeedComment `json:"comments"`
}

// TopRestaurant is one entry of the most-favorited list.
type TopRestaurant struct {
	Restaurant
	FavoriteCount int64 `json:"favorite_count"`
	IsFavorited   bool  `json:"is_favorited"`
}
