// Package middleware contains Gin middleware for the investor-scout API.
// Middleware in Gin is a handler that runs before (or after) the route
// handler; it calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth returns middleware that validates API keys.
// The key can come from the X-API-Key header or the api_key query param —
// the query form exists for the CSV export link, which browsers fetch
// without custom headers.
func APIKeyAuth(validKeys []string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid API key",
			})
			return
		}

		// Store the key for downstream middleware (rate limiting buckets
		// are per key).
		c.Set("api_key", key)
		c.Next()
	}
}

// AdminKeyAuth returns middleware that validates admin API keys — same
// pattern as APIKeyAuth, for the stats endpoint.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	keySet := make(map[string]struct{}, len(adminKeys))
	for _, k := range adminKeys {
		keySet[k] = struct{}{}
	}

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing admin API key",
			})
			return
		}

		if _, ok := keySet[key]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "invalid admin API key",
			})
			return
		}

		c.Set("api_key", key)
		c.Next()
	}
}
