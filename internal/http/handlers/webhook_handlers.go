package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/portalauth/domain"
)

// WebhookHandlers handles push-mode ingestion: one update per HTTP call,
// interpreted synchronously by the same handler the poller uses
type WebhookHandlers struct {
	handler   domain.UpdateHandler
	messenger domain.MessengerService
}

// NewWebhookHandlers creates new webhook handlers
func NewWebhookHandlers(handler domain.UpdateHandler, messenger domain.MessengerService) *WebhookHandlers {
	return &WebhookHandlers{handler: handler, messenger: messenger}
}

// Receive ingests one update. The acknowledgement is fixed regardless of
// interpretation outcome: error feedback would only trigger a retry storm
// from the upstream sender
func (h *WebhookHandlers) Receive(c *gin.Context) {
	if !h.messenger.Configured() {
		log.Printf("webhook: %v", domain.ErrMessengerNotConfigured)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "messaging transport not configured"})
		return
	}

	var update domain.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Printf("webhook: malformed update: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.handler.HandleUpdate(c.Request.Context(), &update); err != nil {
		log.Printf("webhook: update %d failed: %v", update.UpdateID, err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
