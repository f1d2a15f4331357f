package serverutils

import (
	"errors"

	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service errors onto HTTP statuses. Provider and
// dimension errors surface as 502 ("upstream AI dependency failed") so
// clients can tell them from our own 500s.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			status = fiber.StatusBadRequest
		case errors.Is(err, apperrors.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, apperrors.ErrForbidden):
			status = fiber.StatusForbidden
		case errors.Is(err, apperrors.ErrProvider), errors.Is(err, apperrors.ErrDimensionMismatch):
			status = fiber.StatusBadGateway
		}

		if status == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"error": err.Error(),
				"path":  ctx.Path(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
