package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zakoken/zkkd/internal/interfaces/http/permissions"
)

const callerKey = "caller"

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth rejects with 401 the requests to non-public routes without a valid
// bearer token. The subject of the token is the caller of the request.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		// Unknown routes are left to the not found handler.
		if len(route) <= 0 || permissions.IsPublic(c.Request.Method, route) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if len(header) <= 0 || token == header {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized, gin.H{"error": "missing bearer token"},
			)
			return
		}

		subject, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized, gin.H{"error": err.Error()},
			)
			return
		}

		c.Set(callerKey, subject)
		c.Next()
	}
}

// Caller returns the identity of the authenticated caller, if any.
func Caller(c *gin.Context) string {
	return c.GetString(callerKey)
}
