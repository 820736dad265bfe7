package middleware

import (
	"errors"
	"net/http"
	"strings"

	"ticketbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the signed session token for browser clients.
const SessionCookie = "session_token"

const sessionKey = "session"

// RequireSession resolves the caller's session from a Bearer token or the
// session cookie and aborts with 401 when there is none.
func RequireSession(tokens services.TokenIssuer, store services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerOrCookie(c)
		if raw == "" {
			abortUnauthorized(c, "Please log in to continue!")
			return
		}
		sid, err := tokens.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "Session is invalid, please log in again")
			return
		}
		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				abortUnauthorized(c, "Session has expired, please log in again")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "session lookup failed",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(sessionKey, sess)
		c.Set("userID", sess.UserID)
		c.Set("userRole", sess.Role)
		c.Next()
	}
}

// CurrentSession returns the session set by RequireSession.
func CurrentSession(c *gin.Context) (services.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return services.Session{}, false
	}
	s, ok := v.(services.Session)
	return s, ok
}

// BearerOrCookie returns the raw session token, header first.
func BearerOrCookie(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}
