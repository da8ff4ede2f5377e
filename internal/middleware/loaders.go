package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/loader"
)

// Loaders attaches a fresh loader set to every request. The set's cache
// is scoped to the request and discarded with it; sharing one set across
// requests would serve stale data with no invalidation path.
func Loaders(repos loader.Repositories) gin.HandlerFunc {
	return func(c *gin.Context) {
		set := loader.NewSet(repos)
		c.Request = c.Request.WithContext(loader.NewContext(c.Request.Context(), set))
		c.Next()
	}
}
