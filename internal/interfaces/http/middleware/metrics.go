package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records request durations.
type HTTPObserver interface {
	ObserveHTTP(method, route string, code int, d time.Duration)
}

// Metrics labels requests by route template so ids do not explode the
// label space. Unmatched routes share one label.
func Metrics(obs HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
