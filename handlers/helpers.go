package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/smartsplit/smartsplit-backend/errors"
	"github.com/smartsplit/smartsplit-backend/middleware"
)

// getUserIDFromContext extracts the authenticated user ID from the Gin context.
// Returns empty string if not found (caller should handle unauthorized response).
func getUserIDFromContext(c *gin.Context) string {
	return c.GetString(string(middleware.UserIDKey))
}

// bindJSONOrError binds JSON request body and sets validation error if binding fails.
// Returns true if binding succeeded, false if error was set (caller should return).
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request payload", err.Error()))
		return false
	}
	return true
}

// isValidUUID validates that a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// requireGroupID validates the :id path parameter and sets a validation
// error if it is missing or malformed.
func requireGroupID(c *gin.Context) (string, bool) {
	groupID := c.Param("id")
	if groupID == "" || !isValidUUID(groupID) {
		_ = c.Error(apperrors.ValidationFailed("Invalid group ID", "a valid group ID is required"))
		return "", false
	}
	return groupID, true
}

// requireUserID extracts the authenticated user or sets an auth error.
func requireUserID(c *gin.Context) (string, bool) {
	userID := getUserIDFromContext(c)
	if userID == "" {
		_ = c.Error(apperrors.AuthenticationFailed("User not authenticated"))
		return "", false
	}
	return userID, true
}
