package session

import (
	"math"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the session cookie the quiz client carries.
	CookieName = "quiz_session"

	// ContextKeySessionID is the Gin context key for the session ID.
	ContextKeySessionID = "session_id"
)

// Middleware resolves the session ID from the quiz_session cookie, minting a
// new session when the cookie is missing, expired or tampered with. A broken
// cookie never fails the request — the user just starts a fresh quiz.
func Middleware(tm *TokenManager, ttlSeconds int) gin.HandlerFunc {
	if ttlSeconds <= 0 || ttlSeconds > math.MaxInt32 {
		ttlSeconds = 86400
	}

	return func(c *gin.Context) {
		if token, err := c.Cookie(CookieName); err == nil {
			if id, err := tm.Validate(token); err == nil {
				c.Set(ContextKeySessionID, id)
				c.Next()
				return
			}
		}

		id, token, err := tm.Mint()
		if err != nil {
			// Extremely unlikely (HMAC signing). Fall back to an unsaved
			// session so the request can still be served statelessly.
			id = "ephemeral"
		} else {
			c.SetCookie(CookieName, token, ttlSeconds, "/", "", false, true)
		}

		c.Set(ContextKeySessionID, id)
		c.Next()
	}
}

// GetSessionID retrieves the session ID placed by Middleware.
func GetSessionID(c *gin.Context) string {
	val, exists := c.Get(ContextKeySessionID)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
