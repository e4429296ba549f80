package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/codec"
	"signally/internal/livestore"
	"signally/internal/service"
)

type UserHandler struct {
	Live *livestore.Store
	Mut  *service.Mutator
	Auth gin.HandlerFunc
}

func (h *UserHandler) Register(r *gin.Engine) {
	group := r.Group("/api/users")
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("/:id/lifetime", h.Auth, h.setLifetime)
}

func (h *UserHandler) list(c *gin.Context) {
	Ok(c, h.Live.AuthUsers(), nil)
}

func (h *UserHandler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, err := h.Mut.GetAuthUser(c.Request.Context(), id)
	if errors.Is(err, codec.ErrNotFound) {
		Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

type lifetimeRequest struct {
	Value *bool `json:"value"`
}

func (h *UserHandler) setLifetime(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	var req lifetimeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		Error(c, http.StatusBadRequest, "value required", nil)
		return
	}
	if !h.Mut.SetUserLifetime(c.Request.Context(), id, *req.Value) {
		Error(c, http.StatusBadGateway, "update user failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}
