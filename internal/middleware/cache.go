package middleware

import "github.com/gin-gonic/gin"

// NoStore marks responses as uncacheable. Used on the auth routes so tokens
// never land in a shared cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
