package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/SscSPs/taskboard_app/internal/dto"
	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string   `json:"error"`
	Field string   `json:"field,omitempty"`
	IDs   []string `json:"ids,omitempty"`
}

// respondError maps a service error to its status and logs it at a level matching the status.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)

	body := ErrorResponse{Error: err.Error()}
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		body.Field = vErr.Field
		body.IDs = vErr.IDs
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		body = ErrorResponse{Error: "Failed to " + action}
	} else {
		logger.Warn("Rejected request to "+action, slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, body)
}

// bindJSON binds and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req any, action string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: dto.ValidationMessage(err)})
		return false
	}
	return true
}

// requestContext reads the caller identity set by the auth and workspace middleware.
func requestContext(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User or workspace ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.RequestContext{}, false
	}
	return rc, true
}
