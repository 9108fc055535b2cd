package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/models"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/store"
	"github.com/Crypto-Jaguars/Revo-Marketplace-sub002/utils"
)

type UnsubscribeHandlers struct {
	Tokens      *utils.UnsubscribeTokenService
	Subscribers *store.SubscriberStore
}

func NewUnsubscribeHandlers(tokens *utils.UnsubscribeTokenService, subscribers *store.SubscriberStore) *UnsubscribeHandlers {
	return &UnsubscribeHandlers{Tokens: tokens, Subscribers: subscribers}
}

func frontendOrigin() string {
	if origin := os.Getenv("FE_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:3000"
}

// Redirect handles the link embedded in emails. It verifies the token and
// forwards to the human-facing unsubscribe page; nothing is mutated here.
// Missing parameters land on the manual-entry page instead of an error.
func (h *UnsubscribeHandlers) Redirect(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")

	base := frontendOrigin()
	if email == "" || token == "" {
		c.Redirect(http.StatusFound, base+"/unsubscribe/manual")
		return
	}

	if !h.Tokens.VerifyToken(email, token) {
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/unsubscribe?error=invalid_token&email=%s", base, url.QueryEscape(email)))
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/unsubscribe?email=%s&token=%s", base, url.QueryEscape(email), url.QueryEscape(token)))
}

// Unsubscribe marks the subscriber unsubscribed. The token is optional
// (the manual page posts a bare email), but a token that is present must
// verify. Repeat calls are a success with no further mutation.
func (h *UnsubscribeHandlers) Unsubscribe(c *gin.Context) {
	var req models.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if req.Token != "" && !h.Tokens.VerifyToken(req.Email, req.Token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid unsubscribe token"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Subscribers.Unsubscribe(ctx, req.Email, req.Reason); err != nil {
		log.Printf("Error unsubscribing %s: %v", store.NormalizeEmail(req.Email), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have been unsubscribed"})
}
