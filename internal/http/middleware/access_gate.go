package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccessGate guards portal-private routes. It checks only that the session
// cookie is present and redirects to the public entry point otherwise.
// Token freshness against the store is checked by the data handlers, not
// here
type AccessGate struct {
	cookieName string
	entryPath  string
}

// NewAccessGate creates the portal access gate
func NewAccessGate(cookieName, entryPath string) *AccessGate {
	return &AccessGate{cookieName: cookieName, entryPath: entryPath}
}

// Require returns the gate middleware
func (g *AccessGate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(g.cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, g.entryPath)
			c.Abort()
			return
		}

		c.Set("session_token", token)
		c.Next()
	}
}
