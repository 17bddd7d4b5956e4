package handlers

import (
	"errors"
	"fmt"

	"devcamper/internal/apperror"
	"devcamper/internal/models"
	"devcamper/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {success:false, error} with the matching status. Causes of server errors
// are logged and never sent to the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := translate(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("Unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}

func translate(err error) (int, string) {
	var (
		validationErr *validation.Error
		appErr        *apperror.Error
		invalidID     *models.InvalidIDError
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.As(err, &appErr):
		return appErr.Status, appErr.Message
	case errors.As(err, &invalidID):
		return fiber.StatusNotFound, fmt.Sprintf("Resource with id %s is not found", invalidID.ID)
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, models.ErrDuplicateKey):
		return fiber.StatusBadRequest, "Duplicate field value entered"
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "Server Error"
	}
}
