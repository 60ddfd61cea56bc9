package server

import (
	"log"

	"media-retrieval-be/internal/bootstrap"
	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100MB, dataset zips are large
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	// Routes
	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	// Session issuing is the only endpoint reachable without a token.
	c.SessionController.RegisterRoutes(api)

	requireSession := serverutils.SessionMiddleware(cfg.Session.CookieName)

	c.DatasetController.RegisterRoutes(api, requireSession)
	c.MapperController.RegisterRoutes(api, requireSession)
	c.QueryController.RegisterRoutes(api, requireSession)
	c.StatusController.RegisterRoutes(api, requireSession)

	c.UploadNotifyHandler.RegisterRoutes(api, requireSession)
}
