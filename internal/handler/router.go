package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/smile19439/forum-express-grading/pkg/middleware"
	"github.com/smile19439/forum-express-grading/pkg/response"
)

// RegisterRoutes mounts every API route on the router. Browsing endpoints
// accept anonymous requests; write endpoints require an access token.
func RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware, users *UserHandler, restaurants *RestaurantHandler) {
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", users.SignUp)
		authGroup.POST("/login", users.Login)
		authGroup.POST("/refresh", users.RefreshToken)
	}

	userGroup := v1.Group("/users")
	{
		userGroup.GET("/top", auth.OptionalAuth(), users.TopUsers)
		userGroup.GET("/:user_id", auth.OptionalAuth(), users.GetProfile)
		userGroup.GET("/:user_id/followers/count", users.FollowerCount)

		userGroup.PUT("/:user_id", auth.RequireAuth(), users.UpdateProfile)
		userGroup.POST("/:user_id/follow", auth.RequireAuth(), users.Follow)
		userGroup.DELETE("/:user_id/follow", auth.RequireAuth(), users.Unfollow)
	}

	restaurantGroup := v1.Group("/restaurants")
	{
		restaurantGroup.GET("", auth.OptionalAuth(), restaurants.List)
		restaurantGroup.GET("/feeds", restaurants.Feeds)
		restaurantGroup.GET("/top", auth.OptionalAuth(), restaurants.Top)
		restaurantGroup.GET("/:restaurant_id", auth.OptionalAuth(), restaurants.Get)

		restaurantGroup.POST("/:restaurant_id/favorite", auth.RequireAuth(), restaurants.AddFavorite)
		restaurantGroup.DELETE("/:restaurant_id/favorite", auth.RequireAuth(), restaurants.RemoveFavorite)
		restaurantGroup.POST("/:restaurant_id/like", auth.RequireAuth(), restaurants.AddLike)
		restaurantGroup.DELETE("/:restaurant_id/like", auth.RequireAuth(), restaurants.RemoveLike)
	}
}
