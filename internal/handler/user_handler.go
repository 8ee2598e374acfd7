package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/smile19439/forum-express-grading/internal/domain"
	"github.com/smile19439/forum-express-grading/internal/service"
	"github.com/smile19439/forum-express-grading/pkg/middleware"
	"github.com/smile19439/forum-express-grading/pkg/response"
)

// maxImageSize caps profile image uploads at 5 MiB.
const maxImageSize = 5 << 20

// UserHandler serves auth, profile, follow, and user ranking endpoints.
type UserHandler struct {
	users    service.UserService
	relation service.RelationService
	ranking  service.RankingService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, relation service.RelationService, ranking service.RankingService) *UserHandler {
	return &UserHandler{users: users, relation: relation, ranking: ranking}
}

// SignUp handles POST /api/v1/auth/signup
func (h *UserHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, user)
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	auth, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, auth)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	auth, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, auth)
}

// GetProfile handles GET /api/v1/users/:user_id
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile handles PUT /api/v1/users/:user_id (multipart form with a
// "name" field and an optional "image" file).
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	requesterID := middleware.GetUserID(c)
	targetID := c.Param("user_id")
	name := c.PostForm("name")

	var image *service.ProfileImage
	fileHeader, err := c.FormFile("image")
	if err == nil {
		if fileHeader.Size > maxImageSize {
			response.BadRequest(c, "image too large")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "failed to read image")
			return
		}
		defer file.Close()
		image = &service.ProfileImage{
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), requesterID, targetID, name, image)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// TopUsers handles GET /api/v1/users/top
func (h *UserHandler) TopUsers(c *gin.Context) {
	top, err := h.ranking.TopUsers(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"users": top})
}

// FollowerCount handles GET /api/v1/users/:user_id/followers/count
func (h *UserHandler) FollowerCount(c *gin.Context) {
	userID := c.Param("user_id")
	count, err := h.ranking.FollowerCount(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "follower_count": count})
}

// Follow handles POST /api/v1/users/:user_id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	err := h.relation.Follow(c.Request.Context(), middleware.GetUserID(c), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"following_id": c.Param("user_id")})
}

// Unfollow handles DELETE /api/v1/users/:user_id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	err := h.relation.Unfollow(c.Request.Context(), middleware.GetUserID(c), c.Param("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"following_id": c.Param("user_id")})
}
