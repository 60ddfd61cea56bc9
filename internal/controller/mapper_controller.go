package controller

import (
	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMapperController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Upload(ctx *fiber.Ctx) error
}

type mapperController struct {
	mapperService service.IMapperService
}

func NewMapperController(mapperService service.IMapperService) IMapperController {
	return &mapperController{
		mapperService: mapperService,
	}
}

func (c *mapperController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/mapper", middleware...)
	h.Post("", c.Upload)
}

func (c *mapperController) Upload(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	header, err := ctx.FormFile("mapper")
	if err != nil {
		return serverutils.NewMissingInput("Mapper file is missing")
	}

	payload, err := readMultipartFile(header)
	if err != nil {
		return serverutils.NewInternal("Error uploading mapper", err)
	}

	res, err := c.mapperService.Replace(ctx.Context(), sessionID, header.Filename, payload)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
