package controller

import (
	"io"
	"mime/multipart"

	"media-retrieval-be/internal/pkg/serverutils"
	"media-retrieval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDatasetController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type datasetController struct {
	datasetService service.IDatasetService
}

func NewDatasetController(datasetService service.IDatasetService) IDatasetController {
	return &datasetController{
		datasetService: datasetService,
	}
}

func (c *datasetController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/dataset", middleware...)
	h.Post("", c.Upload)
	h.Get("", c.List)
}

func (c *datasetController) Upload(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	coverHeader, coverErr := ctx.FormFile("cover")
	musicHeader, musicErr := ctx.FormFile("music")
	if coverErr != nil || musicErr != nil {
		return serverutils.NewMissingInput("Both cover and music datasets are required")
	}

	cover, err := readMultipartFile(coverHeader)
	if err != nil {
		return serverutils.NewInternal("Error processing dataset", err)
	}
	music, err := readMultipartFile(musicHeader)
	if err != nil {
		return serverutils.NewInternal("Error processing dataset", err)
	}

	res, err := c.datasetService.IngestArchives(ctx.Context(), sessionID, cover, music)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *datasetController) List(ctx *fiber.Ctx) error {
	sessionID := serverutils.SessionID(ctx)

	res, err := c.datasetService.Project(ctx.Context(), sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
