package middleware

import "github.com/gin-gonic/gin"

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the request context key for the authenticated user's ID (string).
	UserIDKey contextKey = "userID"
)

// Gin context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
)

// GetUserID returns the authenticated user's ID, or "" when the request was
// not authenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
