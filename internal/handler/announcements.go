package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/codec"
	"signally/internal/livestore"
	"signally/internal/models"
	"signally/internal/service"
)

type AnnouncementHandler struct {
	Live *livestore.Store
	Mut  *service.Mutator
	Auth gin.HandlerFunc
}

func (h *AnnouncementHandler) Register(r *gin.Engine) {
	group := r.Group("/api/announcements")
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("", h.Auth, h.create)
	group.PUT("/:id", h.Auth, h.update)
	group.DELETE("/:id", h.Auth, h.remove)
}

func (h *AnnouncementHandler) list(c *gin.Context) {
	Ok(c, h.Live.Announcements(), nil)
}

func (h *AnnouncementHandler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item, err := h.Mut.GetAnnouncement(c.Request.Context(), id)
	if errors.Is(err, codec.ErrNotFound) {
		Error(c, http.StatusNotFound, "announcement not found", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

type announcementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"imageUrl"`
}

func (req announcementRequest) toModel() (models.Announcement, string) {
	var a models.Announcement
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return a, "title required"
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return a, "description required"
	}
	link := strings.TrimSpace(req.Link)
	if link != "" {
		if u, err := url.Parse(link); err != nil || u.Scheme == "" || u.Host == "" {
			return a, "invalid link"
		}
	}
	return models.Announcement{
		Title:       title,
		Description: description,
		Link:        link,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}, ""
}

func (h *AnnouncementHandler) create(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if !h.Mut.CreateAnnouncement(c.Request.Context(), item) {
		Error(c, http.StatusBadGateway, "create announcement failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}

func (h *AnnouncementHandler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if !h.Mut.UpdateAnnouncement(c.Request.Context(), id, item) {
		Error(c, http.StatusBadGateway, "update announcement failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}

func (h *AnnouncementHandler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "id required", nil)
		return
	}
	if !h.Mut.DeleteAnnouncement(c.Request.Context(), id) {
		Error(c, http.StatusBadGateway, "delete announcement failed", nil)
		return
	}
	Ok(c, gin.H{"success": true}, nil)
}
