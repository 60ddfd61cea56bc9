package serverutils

import "github.com/gofiber/fiber/v2"

const SessionLocalsKey = "session_id"

// SessionMiddleware requires possession of a session token cookie. The
// token is opaque: possession is the whole authorization model. Handlers
// read the resolved token from ctx.Locals.
func SessionMiddleware(cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(cookieName)
		if token == "" {
			return NewUnauthenticated()
		}
		ctx.Locals(SessionLocalsKey, token)
		return ctx.Next()
	}
}

// SessionID returns the token resolved by SessionMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(SessionLocalsKey).(string)
	return token
}
