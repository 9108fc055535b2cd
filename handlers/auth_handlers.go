package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/middleware"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
)

type AuthHandlers struct {
	Sessions *store.SessionStore
	adminKey string
}

func NewAuthHandlers(sessions *store.SessionStore, adminKey string) *AuthHandlers {
	return &AuthHandlers{Sessions: sessions, adminKey: adminKey}
}

// Login exchanges the configured admin key for a 24h session cookie. The
// comparison is constant time; mismatches get a generic 401.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		log.Println("Admin login rejected: key mismatch")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin key"})
		return
	}

	session, err := h.Sessions.Create()
	if err != nil {
		log.Printf("ERROR: Failed to create admin session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.SessionCookieName,
		session.Token,
		int(24*time.Hour/time.Second),
		"/",
		"",
		gin.Mode() == gin.ReleaseMode,
		true,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout revokes the session named by the cookie and clears it. Always
// succeeds, even with no cookie or an already-revoked token.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		h.Sessions.Delete(token)
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.SessionCookieName,
		"",
		-1,
		"/",
		"",
		gin.Mode() == gin.ReleaseMode,
		true,
	)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
