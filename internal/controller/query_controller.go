package controller

import (
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	UploadImage(ctx *fiber.Ctx) error
	UploadAudio(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/query", middleware...)
	h.Post("/image", c.UploadImage)
	h.Post("/audio", c.UploadAudio)
	h.Get("", c.Run)
	h.Delete("", c.Delete)
}

func (c *queryController) UploadImage(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	header, err := ctx.FormFile("image")
	if err != nil {
		return serverutils.NewMissingInput("Image file is required")
	}

	data, err := readMultipartFile(header)
	if err != nil {
		return serverutils.NewInternal("Error processing image upload", err)
	}

	res, err := c.queryService.StageVisual(ctx.Context(), sessionID, header.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *queryController) UploadAudio(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	header, err := ctx.FormFile("audio")
	if err != nil {
		return serverutils.NewMissingInput("Audio file is required")
	}

	data, err := readMultipartFile(header)
	if err != nil {
		return serverutils.NewInternal("Error processing audio upload", err)
	}

	res, err := c.queryService.StageAudio(ctx.Context(), sessionID, header.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *queryController) Run(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	if err := c.queryService.Run(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Query executed successfully"))
}

func (c *queryController) Delete(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	if err := c.queryService.Revert(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Query reverted successfully"))
}
