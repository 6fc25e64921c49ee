package middleware

import "github.com/gin-gonic/gin"

const (
	// ContextKeyUserID is the context key for the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the context key for the authenticated user email
	ContextKeyUserEmail = "email"
	// ContextKeyUserRole is the context key for the authenticated user role
	ContextKeyUserRole = "role"
)

// GetUserID extracts the authenticated user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// GetUserEmail extracts the authenticated user email from gin context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyUserEmail)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole extracts the authenticated user role from gin context
func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}
