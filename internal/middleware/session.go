package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snotra-ai/snotra-backend/internal/logger"
)

const (
	sessionCookie = "snotra_session"
	contextKey    = "session_key"
	cookieMaxAge  = 60 * 60 * 24 // one day; server-side TTL is authoritative
)

// SessionMiddleware gives every caller an opaque session key via cookie.
// The key scopes the active document and chat history; nothing else hangs
// off it, so there is no login and no signature.
type SessionMiddleware struct {
	log *logger.Logger
}

func NewSessionMiddleware(log *logger.Logger) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("middleware", "SessionMiddleware")}
}

func (m *SessionMiddleware) EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(sessionCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, key, cookieMaxAge, "/", "", false, true)
			m.log.Debug("issued new session", "session_key", key)
		}
		c.Set(contextKey, key)
		c.Next()
	}
}

// SessionKey returns the caller's session key set by EnsureSession.
func SessionKey(c *gin.Context) string {
	return c.GetString(contextKey)
}
