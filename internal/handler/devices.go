package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/notify"
)

// DeviceHandler lets apps register and remove their push tokens. Registration
// is unauthenticated on purpose: the token itself is the capability.
type DeviceHandler struct {
	Registry notify.Registry
}

func (h *DeviceHandler) Register(r *gin.Engine) {
	group := r.Group("/api/devices")
	group.POST("", h.register)
	group.DELETE("", h.remove)
}

type deviceRequest struct {
	Token string `json:"token"`
}

func (h *DeviceHandler) register(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		Error(c, http.StatusBadRequest, "token required", nil)
		return
	}
	if err := h.Registry.Register(c.Request.Context(), strings.TrimSpace(req.Token)); err != nil {
		Error(c, http.StatusBadGateway, "register device failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}

func (h *DeviceHandler) remove(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		Error(c, http.StatusBadRequest, "token required", nil)
		return
	}
	if err := h.Registry.Remove(c.Request.Context(), strings.TrimSpace(req.Token)); err != nil {
		Error(c, http.StatusBadGateway, "remove device failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}
