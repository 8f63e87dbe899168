package api

import (
	"fitclub/internal/apperr"
	"fitclub/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string            `json:"error" example:"something went wrong"`
	Code    apperr.Code       `json:"code" example:"VALIDATION_ERROR"`
	Details []ValidationError `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RespondError writes err using the status and public message of its code.
// Internal errors are logged with their cause since the client never sees it.
func RespondError(c *gin.Context, err error) {
	status, code, msg := apperr.Public(err)
	if code == apperr.CodeInternal {
		logger.WithError(err).Error().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}
