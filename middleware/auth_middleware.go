package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
)

// SessionCookieName is the admin bearer cookie set on login.
const SessionCookieName = "admin_session"

// AdminRequired gates analytics reads behind a live admin session. The
// token is read from the session cookie, falling back to a bearer
// Authorization header for non-browser clients. Failures are a generic
// 401 with no detail about why the token was rejected.
func AdminRequired(sessions *store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			token = c.GetHeader("Authorization")
			token = strings.TrimPrefix(token, "Bearer ")
		}

		if !sessions.Validate(token) {
			log.Printf("AdminRequired: rejected request to %s", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
