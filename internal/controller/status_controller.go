package controller

import (
	"os"

	"media-retrieval-be/internal/dto"
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// statusController serves the free-form status file the retrieval engine
// leaves behind (elapsed-time report). Its response envelope differs from
// the rest of the API: {content} on success, {error} otherwise.
type IStatusController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Show(ctx *fiber.Ctx) error
}

type statusController struct {
	layout *storage.Layout
}

func NewStatusController(layout *storage.Layout) IStatusController {
	return &statusController{
		layout: layout,
	}
}

func (c *statusController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/status", middleware...)
	h.Get("", c.Show)
}

func (c *statusController) Show(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)
	statusPath := c.layout.StatusPath(sessionID)

	if !storage.FileExists(statusPath) {
		return ctx.Status(fiber.StatusNotFound).JSON(dto.StatusErrorResponse{Error: "File not found."})
	}

	content, err := os.ReadFile(statusPath)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.StatusErrorResponse{Error: "Failed to read file."})
	}

	return ctx.JSON(dto.StatusContentResponse{Content: string(content)})
}
