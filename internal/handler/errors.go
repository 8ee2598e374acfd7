package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/smile19439/forum-express-grading/internal/service"
	"github.com/smile19439/forum-express-grading/pkg/log"
	"github.com/smile19439/forum-express-grading/pkg/response"
)

// writeServiceError maps service errors onto HTTP responses. Anything
// unrecognized is logged and reported as a 500 without leaking the cause.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		response.BadRequest(c, "passwords do not match")
	case errors.Is(err, service.ErrNameRequired):
		response.BadRequest(c, "name is required")
	case errors.Is(err, service.ErrSelfFollow):
		response.BadRequest(c, "cannot follow yourself")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "cannot edit another user's profile")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "user not found")
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, "restaurant not found")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "relation not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, "email already registered")
	case errors.Is(err, service.ErrAlreadyExists):
		response.Conflict(c, "relation already exists")
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).
			Str("path", c.FullPath()).
			Msg("unhandled service error")
		response.InternalError(c, "internal server error")
	}
}
