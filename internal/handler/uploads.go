package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/blob"
)

// Announcement images come in as multipart uploads and go out as gateway URLs.
type UploadHandler struct {
	Blob *blob.Client
	Auth gin.HandlerFunc
}

const maxUploadBytes = 10 << 20

func (h *UploadHandler) Register(r *gin.Engine) {
	r.POST("/api/uploads", h.Auth, h.upload)
}

func (h *UploadHandler) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "file required", nil)
		return
	}
	if header.Size > maxUploadBytes {
		Error(c, http.StatusBadRequest, "file too large", nil)
		return
	}
	name := filepath.Base(strings.TrimSpace(header.Filename))
	if name == "" || name == "." {
		Error(c, http.StatusBadRequest, "invalid filename", nil)
		return
	}

	f, err := header.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Blob.Upload(c.Request.Context(), name, header.Header.Get("Content-Type"), f)
	if err != nil {
		Error(c, http.StatusBadGateway, "upload failed", nil)
		return
	}
	Ok(c, gin.H{"url": url}, nil)
}
