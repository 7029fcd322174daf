package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
)

// respondError maps a service error to its status code and writes
// {"error": "..."}.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, interview.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrUnsupportedFileType),
		errors.Is(err, models.ErrAlreadyAnswered),
		errors.Is(err, models.ErrInactiveUser),
		errors.Is(err, interview.ErrInvalidCategory):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrSessionCompleted),
		errors.Is(err, interview.ErrSessionCompleted):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrUnauthorized):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Could not validate credentials",
		})
	}

	if status == fiber.StatusInternalServerError {
		logger.Logger.WithField("path", c.Path()).Errorf("❌ Request failed: %v", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s format", models.ErrInvalidInput, name)
	}
	return uint(id), nil
}
