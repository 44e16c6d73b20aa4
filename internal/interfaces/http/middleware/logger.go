package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Logger logs every request at debug level.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
			"caller":  Caller(c),
		}).Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
