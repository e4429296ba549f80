package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"signally/internal/codec"
	"signally/internal/livestore"
	"signally/internal/models"
	"signally/internal/service"
)

type SignalHandler struct {
	Live *livestore.Store
	Mut  *service.Mutator
	Auth gin.HandlerFunc
}

func (h *SignalHandler) Register(r *gin.Engine) {
	group := r.Group("/api/signals")
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("", h.Auth, h.create)
	group.PUT("/:id", h.Auth, h.update)
	group.DELETE("/:id", h.Auth, h.remove)
}

func (h *SignalHandler) list(c *gin.Context) {
	Ok(c, h.Live.Signals(), nil)
}

func (h *SignalHandler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, err := h.Mut.GetSignal(c.Request.Context(), id)
	if errors.Is(err, codec.ErrNotFound) {
		Error(c, http.StatusNotFound, "signal not found", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

type signalRequest struct {
	Type        string     `json:"type"`
	Symbol      string     `json:"symbol"`
	SignalDate  *time.Time `json:"signalDate"`
	SignalTime  *time.Time `json:"signalTime"`
	Entry       string     `json:"entry"`
	StopLoss    string     `json:"stopLoss"`
	TakeProfit1 string     `json:"takeProfit1"`
	TakeProfit2 *string    `json:"takeProfit2"`
	Comment     string     `json:"comment"`
	IsActive    *bool      `json:"isActive"`
	IsFree      *bool      `json:"isFree"`
}

func (req signalRequest) toModel() (models.Signal, string) {
	var s models.Signal
	typ := strings.TrimSpace(req.Type)
	if typ != models.SignalTypeBull && typ != models.SignalTypeBear {
		return s, "invalid type"
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return s, "symbol required"
	}
	if req.SignalDate == nil || req.SignalTime == nil {
		return s, "signalDate and signalTime required"
	}
	entry, err := decimal.NewFromString(strings.TrimSpace(req.Entry))
	if err != nil {
		return s, "invalid entry"
	}
	stopLoss, err := decimal.NewFromString(strings.TrimSpace(req.StopLoss))
	if err != nil {
		return s, "invalid stopLoss"
	}
	tp1, err := decimal.NewFromString(strings.TrimSpace(req.TakeProfit1))
	if err != nil {
		return s, "invalid takeProfit1"
	}
	if len(req.Comment) > models.MaxCommentLength {
		return s, "comment too long"
	}

	s = models.Signal{
		Type:        typ,
		Symbol:      symbol,
		SignalDate:  req.SignalDate,
		SignalTime:  req.SignalTime,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfit1: tp1,
		Comment:     req.Comment,
		IsActive:    true,
		IsFree:      false,
	}
	if req.TakeProfit2 != nil && strings.TrimSpace(*req.TakeProfit2) != "" {
		tp2, err := decimal.NewFromString(strings.TrimSpace(*req.TakeProfit2))
		if err != nil {
			return s, "invalid takeProfit2"
		}
		s.TakeProfit2 = &tp2
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if req.IsFree != nil {
		s.IsFree = *req.IsFree
	}
	return s, ""
}

func (h *SignalHandler) create(c *gin.Context) {
	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if !h.Mut.CreateSignal(c.Request.Context(), item) {
		Error(c, http.StatusBadGateway, "create signal failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}

func (h *SignalHandler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if !h.Mut.UpdateSignal(c.Request.Context(), id, item) {
		Error(c, http.StatusBadGateway, "update signal failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}

func (h *SignalHandler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	if !h.Mut.DeleteSignal(c.Request.Context(), id) {
		Error(c, http.StatusBadGateway, "delete signal failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}
