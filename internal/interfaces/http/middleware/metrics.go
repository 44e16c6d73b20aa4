package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/pkg/stats"
)

// Metrics tracks the number and the duration of requests per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if len(route) <= 0 {
			route = "unmatched"
		}
		stats.RecordRequest(
			c.Request.Method, route, c.Writer.Status(), time.Since(start),
		)
	}
}
