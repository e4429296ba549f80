package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signally/internal/models"
	"signally/internal/notify"
	"signally/internal/service"
)

// NotificationHandler owns both halves of the push pipeline: the fan-out
// endpoint the mutation dispatcher posts to, and the admin send route that
// records the notification before dispatching it.
type NotificationHandler struct {
	Mut      *service.Mutator
	Registry notify.Registry
	Sender   notify.Sender
	Auth     gin.HandlerFunc
	Logger   *zap.Logger
}

func (h *NotificationHandler) Register(r *gin.Engine) {
	group := r.Group("/api/notifications")
	group.POST("", h.Auth, h.fanOut)
	group.POST("/send", h.Auth, h.send)
}

type fanOutRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// fanOut delivers one message to every registered device. Individual gateway
// failures are counted, not fatal.
func (h *NotificationHandler) fanOut(c *gin.Context) {
	var req fanOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		Error(c, http.StatusBadRequest, "title and body required", nil)
		return
	}

	tokens, err := h.Registry.Tokens(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, "token registry unavailable", nil)
		return
	}

	delivered, failed := 0, 0
	for _, token := range tokens {
		if err := h.Sender.Send(c.Request.Context(), token, req.Title, req.Body); err != nil {
			failed++
			if h.Logger != nil {
				h.Logger.Warn("push delivery failed", zap.String("device", token), zap.Error(err))
			}
			continue
		}
		delivered++
	}
	Ok(c, gin.H{"delivered": delivered, "failed": failed}, nil)
}

type sendRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// send is the admin flow: persist the notification, then let the mutation
// pipeline dispatch it to the fan-out endpoint.
func (h *NotificationHandler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	if title == "" || body == "" {
		Error(c, http.StatusBadRequest, "title and body required", nil)
		return
	}
	if !h.Mut.CreateNotification(c.Request.Context(), models.Notification{Title: title, Body: body}) {
		Error(c, http.StatusBadGateway, "send notification failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}
