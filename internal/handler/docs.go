package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Signally Admin Backend

Admin surface for the signal product: live collections, privileged writes,
push fan-out.

## Auth

Privileged routes take an identity token in the token query parameter or
JSON body field. Obtain one via POST /api/auth/login.

## Routes

- GET /healthz
- GET /readyz
- POST /api/auth/login
- POST /api/auth/logout
- GET /api/signals
- GET /api/signals/:id
- POST /api/signals
- PUT /api/signals/:id
- DELETE /api/signals/:id
- GET /api/announcements
- GET /api/announcements/:id
- POST /api/announcements
- PUT /api/announcements/:id
- DELETE /api/announcements/:id
- GET /api/users
- GET /api/users/:id
- POST /api/users/:id/lifetime
- POST /api/notifications
- POST /api/notifications/send
- POST /api/devices
- DELETE /api/devices
- POST /api/uploads
- GET /api/billing/config
- GET /ws/:kind (signals | announcements | users)
`)
	})
}
