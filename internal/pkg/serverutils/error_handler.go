package serverutils

import (
	"errors"

	"media-retrieval-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by downstream handlers
// into the {success, message} envelope. AppError keeps its status and
// user-facing message; anything else becomes a generic 500 with the
// diagnostic text kept in the logs.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			details := map[string]interface{}{
				"code":   appErr.Code,
				"path":   ctx.Path(),
				"method": ctx.Method(),
			}
			if appErr.Err != nil {
				details["error"] = appErr.Err.Error()
			}
			if appErr.Status >= fiber.StatusInternalServerError {
				log.Error("ErrorHandler", appErr.Message, details)
			} else {
				log.Warn("ErrorHandler", appErr.Message, details)
			}
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("ErrorHandler", "Unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
