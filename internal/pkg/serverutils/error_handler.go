package serverutils

import (
	"errors"

	"ai-tablechat-be/pkg/assistant"
	"ai-tablechat-be/pkg/host"
	"ai-tablechat-be/pkg/store"
	"ai-tablechat-be/pkg/tabledata"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *ValidationError
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrSessionNotFound), errors.Is(err, host.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, tabledata.ErrNoView):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, assistant.ErrInferenceUnavailable):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware turns errors returned by handlers into JSON responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
