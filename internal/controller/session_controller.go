package controller

import (
	"media-retrieval-be/internal/config"
	"media-retrieval-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type sessionController struct {
	session config.SessionConfig
}

func NewSessionController(session config.SessionConfig) ISessionController {
	return &sessionController{
		session: session,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/session", c.Generate)
}

// Generate resolves the session token: an existing cookie is returned
// unchanged, otherwise a fresh token is issued. Two concurrent first
// requests can each get their own token; the cookie round-trip settles it.
func (c *sessionController) Generate(ctx *fiber.Ctx) error {
	token := ctx.Cookies(c.session.CookieName)

	if token == "" {
		token = uuid.NewString()
		ctx.Cookie(&fiber.Cookie{
			Name:     c.session.CookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   c.session.MaxAgeSecs,
			HTTPOnly: true,
		})
	}

	return ctx.JSON(dto.GenerateSessionResponse{SessionId: token})
}
