package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alertdesk/internal/auth"
)

// WriteAuditMiddleware records every completed write request (POST/PUT/DELETE
// under /api/) to the audit collector.
func WriteAuditMiddleware(client *Client, timeout time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		method := strings.ToUpper(c.Request.Method)
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}

		actor := ""
		if v, ok := c.Get(auth.ContextUserID); ok {
			actor, _ = v.(string)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.CreateRecord(ctx, Record{
			Actor:  actor,
			Action: "alertdesk_http_write",
			Level:  levelFromStatus(c.Writer.Status()),
			Details: map[string]any{
				"method":   method,
				"path":     path,
				"status":   c.Writer.Status(),
				"duration": time.Since(start).String(),
			},
		})
		if err != nil && logger != nil {
			logger.Debug("audit record failed", zap.Error(err))
		}
	}
}

func levelFromStatus(status int) string {
	if status >= 500 {
		return "error"
	}
	if status >= 400 {
		return "warn"
	}
	return "info"
}
