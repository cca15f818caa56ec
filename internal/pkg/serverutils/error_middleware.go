package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"radiology-consult-be/pkg/deliberation"
)

// ErrorHandlerMiddleware converts the typed domain errors into the response
// envelope so controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var validationErr *deliberation.ValidationFailure
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, validationErr.Error()))
		}

		var delibErr *deliberation.DeliberationFailure
		if errors.As(err, &delibErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, delibErr.Error()))
		}

		switch {
		case errors.Is(err, deliberation.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
		case errors.Is(err, deliberation.ErrSessionCancelled):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, err.Error()))
		case errors.Is(err, deliberation.ErrCollaboratorUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(fiber.StatusServiceUnavailable, err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
