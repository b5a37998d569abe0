package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyshare-platform/material-service/internal/services"
	"github.com/studyshare-platform/material-service/internal/utils"
)

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps a payload with a confirmation message for
// mutating endpoints that have no natural body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a request-scoped event with the request's logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a failure with the request's logger
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// handleServiceError maps a service failure onto an HTTP status and the
// uniform error body. Unclassified errors are reported as internal.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	status := statusForCode(services.CodeOf(err))
	if status >= http.StatusInternalServerError {
		h.LogError(c, err, "Request failed")
	}
	c.JSON(status, ErrorResponse{Message: services.MessageOf(err)})
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.CodeValidation, services.CodeInvalidOTP:
		return http.StatusBadRequest
	case services.CodeAuth, services.CodeInvalidToken, services.CodeExpiredToken:
		return http.StatusUnauthorized
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeConflict:
		return http.StatusConflict
	case services.CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
