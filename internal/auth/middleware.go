package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alertdesk/internal/config"
)

const ContextUserID = "auth.user_id"

// Middleware protects /api/* routes. The token comes from the session cookie
// or, for non-browser clients, a bearer header. Health and auth endpoints
// stay open.
func Middleware(cfg config.AuthConfig) gin.HandlerFunc {
	issuer := TokenIssuer{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "token"
	}

	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}
		p := c.Request.URL.Path
		if !strings.HasPrefix(p, "/api/") {
			c.Next()
			return
		}

		raw := ""
		if cookie, err := c.Cookie(cookieName); err == nil {
			raw = cookie
		}
		if raw == "" {
			header := strings.TrimSpace(c.GetHeader("Authorization"))
			if strings.HasPrefix(header, "Bearer ") {
				raw = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			}
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		userID, err := issuer.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}
