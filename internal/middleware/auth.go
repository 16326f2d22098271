package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/futsapp/internal/common"
	"github.com/DhavalSuthar-24/futsapp/pkg/responses"
)

// Identity resolves the acting user. The local app has one signed-in user at most.
type Identity interface {
	CurrentUserID() (string, bool)
}

// RequireUser aborts with 401 unless a user is signed in, and stores the user's id in the context.
func RequireUser(identity Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := identity.CurrentUserID()
		if !ok {
			responses.Unauthorized(c, "Sign in required")
			return
		}

		c.Set(common.ContextUserIDKey, userID)
		c.Next()
	}
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request handled")
	}
}
