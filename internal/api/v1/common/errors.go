package common

import (
	"errors"
	"net/http"
	"strconv"

	"adlaan-backend/internal/middleware"
	"adlaan-backend/internal/services"
	"adlaan-backend/internal/utils"
	"adlaan-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError maps a service error onto the response envelope.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoTargets):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, utils.NewErrorResponse(http.StatusNotFound, "Resource not found"))
	case errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrInvalidDocumentType),
		errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, err.Error()))
	case errors.Is(err, services.ErrIdempotencyConflict):
		c.JSON(http.StatusConflict, utils.NewErrorResponse(http.StatusConflict, err.Error()))
	default:
		logger.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Internal server error"))
	}
}

// MustCaller returns the authenticated caller or writes a 401.
func MustCaller(c *gin.Context) (services.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		c.Abort()
		return services.Caller{}, false
	}
	return caller, true
}

// ParseID reads a positive numeric path or query value.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// OptionalID reads an optional numeric query parameter. A present but
// malformed value writes a 400.
func OptionalID(c *gin.Context, name string) (*uint, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, ok := ParseID(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid "+name))
		return nil, false
	}
	return &id, true
}
