package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/portalauth/domain"
)

// PortalHandlers handles the portal login endpoints that exchange a
// credential for a session cookie, plus the gate-protected me/logout pair
type PortalHandlers struct {
	sessionSvc   domain.SessionService
	challenges   domain.ChallengeStore
	provisionSvc domain.ProvisionService
	cookieName   string
	sessionTTL   time.Duration
}

// NewPortalHandlers creates new portal handlers
func NewPortalHandlers(
	sessionSvc domain.SessionService,
	challenges domain.ChallengeStore,
	provisionSvc domain.ProvisionService,
	cookieName string,
	sessionTTL time.Duration,
) *PortalHandlers {
	return &PortalHandlers{
		sessionSvc:   sessionSvc,
		challenges:   challenges,
		provisionSvc: provisionSvc,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
	}
}

// AccessCodeLoginRequest represents an access-code login
type AccessCodeLoginRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// TelegramLoginRequest represents a login-code exchange after a telegram
// confirmation
type TelegramLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// Login exchanges a durable access code for a session cookie
func (h *PortalHandlers) Login(c *gin.Context) {
	var req AccessCodeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.sessionSvc.ValidateAccessCode(c.Request.Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	h.issueSession(c, client)
}

// LoginTelegram exchanges a verified login challenge for a session cookie.
// The challenge must be unexpired, verified via the messaging channel, and
// carry the exact code shown to the user
func (h *PortalHandlers) LoginTelegram(c *gin.Context) {
	var req TelegramLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challenges.FindByCode(c.Request.Context(), req.Code)
	if err != nil || !challenge.Verified ||
		challenge.Username != strings.ToLower(strings.TrimPrefix(strings.TrimSpace(req.Username), "@")) {
		// expired, unknown, unverified and mismatched all fail identically
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired login code"})
		return
	}

	result, err := h.provisionSvc.Provision(c.Request.Context(), challenge.Username, challenge.FirstName, challenge.TelegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	// the challenge is spent once exchanged for a session
	if err := h.challenges.Delete(c.Request.Context(), challenge.Username); err != nil {
		log.Printf("failed to delete exchanged challenge for %s: %v", challenge.Username, err)
	}

	h.issueSession(c, result.Client)
}

// Me returns the authenticated client. This is the first data-fetching
// call on a portal page, so it performs the full session validation the
// access gate deferred
func (h *PortalHandlers) Me(c *gin.Context) {
	token := c.GetString("session_token")

	client, err := h.sessionSvc.ValidateSession(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":                client.ID,
			"name":              client.Name,
			"status":            client.Status,
			"telegram_username": client.TelegramUsername,
			"last_login":        client.LastLogin,
		},
	})
}

// Logout revokes the session and clears the cookie
func (h *PortalHandlers) Logout(c *gin.Context) {
	token := c.GetString("session_token")

	if err := h.sessionSvc.DeleteSession(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

func (h *PortalHandlers) issueSession(c *gin.Context, client *domain.PortalClient) {
	token, err := h.sessionSvc.CreateSession(c.Request.Context(), client.ID)
	if err != nil {
		log.Printf("failed to create session for client %d: %v", client.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.SetCookie(h.cookieName, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"client": gin.H{
				"id":   client.ID,
				"name": client.Name,
			},
		},
	})
}
