package common

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Key to store the acting user's id in context
const ContextUserIDKey = "userID"

var ErrNoUserInContext = errors.New("user ID not found in context")

// GetUserIDFromContext retrieves the acting user's ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userIDInterface, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", ErrNoUserInContext
	}
	userID, ok := userIDInterface.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID in context is not a non-empty string")
	}
	return userID, nil
}
