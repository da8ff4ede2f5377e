// Package middleware provides HTTP middleware for the attendance service.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/service"
)

// Auth resolves the bearer credential to an identity and attaches it to
// the request context. It does not reject requests itself: the access
// policy gate decides, so that unauthenticated and unverified callers get
// the gate's error taxonomy instead of a transport-level one.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := authService.IdentityFromToken(c.Request.Context(), token)
		if err != nil {
			// Invalid credentials resolve to no identity, never to a
			// hard failure here.
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(policy.NewContext(c.Request.Context(), identity))
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
