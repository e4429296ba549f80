package handler

import (
	"github.com/gin-gonic/gin"
)

// BillingHandler exposes the publishable billing key matching the caller's
// requested mode. The live_mode flag is normalized by RequireBoolFlag, so by
// the time the handler runs it is a real bool on the context.
type BillingHandler struct {
	LivePublishableKey string
	TestPublishableKey string
	Auth               gin.HandlerFunc
}

func (h *BillingHandler) Register(r *gin.Engine) {
	r.GET("/api/billing/config", h.Auth, RequireBoolFlag("live_mode"), h.config)
}

func (h *BillingHandler) config(c *gin.Context) {
	liveMode := c.GetBool("live_mode")
	key := h.TestPublishableKey
	if liveMode {
		key = h.LivePublishableKey
	}
	Ok(c, gin.H{"liveMode": liveMode, "publishableKey": key}, nil)
}
