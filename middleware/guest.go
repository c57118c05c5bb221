package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/polynux/kanap-openclassrooms/auth"
	"go.uber.org/zap"
)

const (
	GuestCookie = "kanap_guest"
	guestKey    = "guest_id"
)

// GuestSession identifies the browser through a signed cookie, issuing a
// new guest when the cookie is missing, expired or tampered with.
func GuestSession(secret []byte, ttl time.Duration, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(GuestCookie); err == nil {
			if guestID, err := auth.ParseGuestToken(secret, token); err == nil {
				c.Set(guestKey, guestID)
				c.Next()
				return
			}
		}

		guestID := auth.NewGuestID()
		token, _, err := auth.IssueGuestToken(secret, guestID, ttl)
		if err != nil {
			logger.Error("guest token generation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(GuestCookie, token, int(ttl/time.Second), "/", "", secure, true)
		c.Set(guestKey, guestID)
		c.Next()
	}
}

// GuestID returns the guest set by GuestSession.
func GuestID(c *gin.Context) string {
	return c.GetString(guestKey)
}
