package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Industry Alerts Admin Service

Backend for the industry-alerts admin dashboard: reference data, alerts with
review workflow, dashboard aggregates, and CSV/XLSX/PDF exports.

## Auth

All /api/* routes require a session cookie or Bearer token.
Health and /auth/* endpoints are public.

- GET  /auth/sso
- POST /auth/password/setup
- POST /auth/login
- POST /auth/logout
- GET  /api/me

## Notable Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET  /api/{sources|regulations|organizations|sites|hazards|plant-types|plant-makes|plant-models}
- GET  /api/{entity}/export?format=csv|xlsx|pdf
- GET  /api/alerts
- POST /api/alerts/bulk-delete
- POST /api/alerts/bulk-update
- GET  /api/alerts/bulk-edit-context?ids=...
- GET  /api/alerts/export?format=csv|xlsx|pdf
- GET  /api/dashboard/metrics
- GET  /api/dashboard/alerts-over-time
- GET  /api/dashboard/recent-alerts
- GET  /api/dashboard/alerts-by-{source|regulation|organization|site|hazard|plant-type}
- GET  /api/dashboard/filtered-data
- GET  /api/dashboard/filter-options/{entity}
- GET  /api/dashboard/stream (websocket)
`)
	})
}
