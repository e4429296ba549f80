package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"signally/internal/livestore"
	"signally/internal/models"
)

// StreamHandler pushes full collection replacements over a websocket, one
// frame per published snapshot, so dashboards render live without polling.
type StreamHandler struct {
	Live   *livestore.Store
	Logger *zap.Logger
}

func (h *StreamHandler) Register(r *gin.Engine) {
	r.GET("/ws/:kind", h.stream)
}

type streamFrame struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

func (h *StreamHandler) stream(c *gin.Context) {
	kind := c.Param("kind")
	if !streamable(kind) {
		Error(c, http.StatusNotFound, "unknown collection", nil)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

	// CloseRead drains client frames and cancels the context when the peer
	// goes away.
	ctx := conn.CloseRead(c.Request.Context())

	// Buffer one tick: intermediate snapshots may be coalesced, the latest
	// collection is always re-read at send time.
	ticks := make(chan struct{}, 1)
	cancel := h.Live.OnChange(kind, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer cancel()

	if err := h.writeFrame(ctx, conn, kind); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			if err := h.writeFrame(ctx, conn, kind); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) writeFrame(ctx context.Context, conn *websocket.Conn, kind string) error {
	var data any
	switch kind {
	case models.KindSignal:
		data = h.Live.Signals()
	case models.KindAnnouncement:
		data = h.Live.Announcements()
	case models.KindAuthUser:
		data = h.Live.AuthUsers()
	}

	wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return wsjson.Write(wctx, conn, streamFrame{Kind: kind, Data: data})
}

func streamable(kind string) bool {
	for _, k := range models.StreamableKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
