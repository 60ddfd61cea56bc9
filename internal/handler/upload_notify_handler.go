package handler

import (
	"time"

	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/pkg/logger"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// UploadNotifyHandler is the long-lived push channel for dataset upload
// status. It polls the session's storage layout on a fixed period rather
// than watching the filesystem; staleness of up to one period is fine for
// a UI indicator.
type UploadNotifyHandler struct {
	layout   *storage.Layout
	interval time.Duration
	logger   logger.ILogger
}

func NewUploadNotifyHandler(layout *storage.Layout, interval time.Duration, log logger.ILogger) *UploadNotifyHandler {
	return &UploadNotifyHandler{
		layout:   layout,
		interval: interval,
		logger:   log,
	}
}

func (h *UploadNotifyHandler) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	r.Get("/notify-upload", append(middleware, h.ServeWs)...)
}

// ServeWs upgrades the connection and streams status events until the
// client goes away.
func (h *UploadNotifyHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := serverutils.SessionID(c)

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("UploadNotifyHandler", "Starting upload notify session", map[string]interface{}{"session_id": sessionID})
			h.serveConn(conn, sessionID)
			h.logger.Info("UploadNotifyHandler", "Upload notify session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *UploadNotifyHandler) serveConn(conn *websocket.Conn, sessionID string) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Read pump: we never expect frames from the client, but reading is how
	// we learn about the disconnect that cancels the ticker loop.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(h.checkStatus(sessionID)); err != nil {
				return
			}
		}
	}
}

// checkStatus reports file-uploaded once both pools are non-empty and the
// mapper exists; everything before that is still "uploading".
func (h *UploadNotifyHandler) checkStatus(sessionID string) dto.UploadStatusEvent {
	visualReady := storage.DirHasFiles(h.layout.VisualDir(sessionID))
	audioReady := storage.DirHasFiles(h.layout.AudioDir(sessionID))
	mapperReady := storage.FileExists(h.layout.MapperPath(sessionID))

	if visualReady && audioReady && mapperReady {
		return dto.UploadStatusEvent{
			Status:  dto.UploadStatusUploaded,
			Message: "Dataset dan mapper berhasil diupload",
		}
	}
	return dto.UploadStatusEvent{
		Status:  dto.UploadStatusUploading,
		Message: "Dataset dan mapper sedang diproses",
	}
}
