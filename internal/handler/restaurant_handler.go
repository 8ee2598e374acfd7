package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smile19439/forum-express-grading/internal/service"
	"github.com/smile19439/forum-express-grading/pkg/middleware"
	"github.com/smile19439/forum-express-grading/pkg/response"
)

const defaultTopRestaurants = 10

// RestaurantHandler serves restaurant browsing and favorite/like endpoints.
type RestaurantHandler struct {
	restaurants service.RestaurantService
	relation    service.RelationService
	ranking     service.RankingService
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(restaurants service.RestaurantService, relation service.RelationService, ranking service.RankingService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, relation: relation, ranking: ranking}
}

// List handles GET /api/v1/restaurants?page=&page_size=
func (h *RestaurantHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	restaurants, err := h.restaurants.List(c.Request.Context(), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"restaurants": restaurants, "page": page})
}

// Feeds handles GET /api/v1/restaurants/feeds
func (h *RestaurantHandler) Feeds(c *gin.Context) {
	feeds, err := h.restaurants.Feeds(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, feeds)
}

// Top handles GET /api/v1/restaurants/top?limit=
func (h *RestaurantHandler) Top(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultTopRestaurants)))
	if err != nil || limit < 1 {
		limit = defaultTopRestaurants
	}

	top, err := h.ranking.TopRestaurants(c.Request.Context(), middleware.GetUserID(c), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"restaurants": top})
}

// Get handles GET /api/v1/restaurants/:restaurant_id
func (h *RestaurantHandler) Get(c *gin.Context) {
	detail, err := h.restaurants.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurant_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// AddFavorite handles POST /api/v1/restaurants/:restaurant_id/favorite
func (h *RestaurantHandler) AddFavorite(c *gin.Context) {
	err := h.relation.AddFavorite(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurant_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"restaurant_id": c.Param("restaurant_id")})
}

// RemoveFavorite handles DELETE /api/v1/restaurants/:restaurant_id/favorite
func (h *RestaurantHandler) RemoveFavorite(c *gin.Context) {
	err := h.relation.RemoveFavorite(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurant_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"restaurant_id": c.Param("restaurant_id")})
}

// AddLike handles POST /api/v1/restaurants/:restaurant_id/like
func (h *RestaurantHandler) AddLike(c *gin.Context) {
	err := h.relation.AddLike(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurant_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"restaurant_id": c.Param("restaurant_id")})
}

// RemoveLike handles DELETE /api/v1/restaurants/:restaurant_id/like
func (h *RestaurantHandler) RemoveLike(c *gin.Context) {
	err := h.relation.RemoveLike(c.Request.Context(), middleware.GetUserID(c), c.Param("restaurant_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"restaurant_id": c.Param("restaurant_id")})
}
