package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// userIDKey is the key used to store the authenticated user's ID in the request context.
	userIDKey = contextKey("userID")
	// workspaceIDKey holds the workspace a request is scoped to.
	workspaceIDKey = contextKey("workspaceID")
)

// WorkspaceIDParam is the route parameter naming the workspace of scoped routes.
const WorkspaceIDParam = "workspace_id"

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// WorkspaceScope reads the workspace id route parameter and stores it in the request
// context. Membership is checked by the services, not here.
func WorkspaceScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param(WorkspaceIDParam)
		if _, err := uuid.Parse(workspaceID); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("workspace_id", workspaceID))
		ctx := context.WithValue(c.Request.Context(), workspaceIDKey, workspaceID)
		ctx = context.WithValue(ctx, loggerCtxKey, logger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestContext builds the caller identity passed into every core call.
// It fails when either the user or the workspace is missing.
func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return domain.RequestContext{}, false
	}
	workspaceID, ok := c.Request.Context().Value(workspaceIDKey).(string)
	if !ok || workspaceID == "" {
		return domain.RequestContext{}, false
	}
	return domain.RequestContext{UserID: userID, WorkspaceID: workspaceID}, true
}
