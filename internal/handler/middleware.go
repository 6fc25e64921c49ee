package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EobardThawne2/parking-beta/internal/domain"
	"github.com/EobardThawne2/parking-beta/internal/service"
	"github.com/EobardThawne2/parking-beta/pkg/middleware"
	"github.com/EobardThawne2/parking-beta/pkg/response"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the request context
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortUnauthorized(c, "UNAUTHORIZED", "Authorization header must use Bearer scheme")
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(middleware.ContextKeyUserID, claims.UserID)
		c.Set(middleware.ContextKeyUserEmail, claims.Email)
		c.Set(middleware.ContextKeyUserRole, string(claims.Role))

		c.Next()
	}
}

// AdminOnlyMiddleware requires an admin or staff role. It must run after
// AuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := middleware.GetUserRole(c)
		if !ok || !domain.UserRole(role).HasAdminAccess() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Response{
				Success: false,
				Error: &response.ErrorData{
					Code:    "FORBIDDEN",
					Message: "Admin access required",
				},
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
		Success: false,
		Error: &response.ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
