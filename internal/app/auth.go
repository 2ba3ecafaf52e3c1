package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// metricsAuthMiddleware enforces Basic Auth on /metrics when a
// password is configured; otherwise it passes requests through.
func metricsAuthMiddleware(enabled bool, username, password string) gin.HandlerFunc {
	unauthorized := func(c *gin.Context) {
		c.Header("WWW-Authenticate", `Basic realm="metrics"`)
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		user, pass, hasAuth := c.Request.BasicAuth()
		if !hasAuth {
			unauthorized(c)
			return
		}

		// Constant-time comparison to prevent timing attacks
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !userMatch || !passMatch {
			unauthorized(c)
			return
		}

		c.Next()
	}
}
