package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/portalauth/internal/http/handlers"
	"github.com/you/portalauth/internal/http/middleware"
)

// BuildRouter assembles the HTTP surface. The webhook route is registered
// only in webhook mode so the two ingestion paths can never run against
// the same bot at once
func BuildRouter(ph *handlers.PortalHandlers, wh *handlers.WebhookHandlers, gate *middleware.AccessGate, webhookEnabled bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	if webhookEnabled {
		r.POST("/telegram/webhook", wh.Receive)
	}

	portal := r.Group("/portal")
	portal.POST("/login", ph.Login)
	portal.POST("/login/telegram", ph.LoginTelegram)

	private := r.Group("/portal").Use(gate.Require())
	private.GET("/me", ph.Me)
	private.POST("/logout", ph.Logout)

	return r
}
