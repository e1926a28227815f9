package delivery

import (
	"errors"
	"membership/config"
	"membership/domain"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the domain error taxonomy onto HTTP statuses and the
// shared response envelope.
func respondError(c *fiber.Ctx, username *string, functionName, message string, err error) error {
	var ve *domain.ValidationError
	var nfe *domain.NotFoundError
	var re *domain.RenderError

	status := fiber.StatusInternalServerError

	switch {
	case errors.As(err, &ve):
		config.PrintLogInfo(username, fiber.StatusBadRequest, functionName)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": message,
			"errors":  ve.Fields,
		})
	case errors.As(err, &nfe):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.As(err, &re):
		status = fiber.StatusInternalServerError
	}

	config.PrintLogInfo(username, status, functionName)
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
