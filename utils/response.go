package utils

import (
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"taskhive/apperrors"
)

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	response := fiber.Map{
		"success": false,
		"error":   message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	return c.Status(status).JSON(response)
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// RespondError maps a service-layer error onto an HTTP response. Typed
// errors carry client-safe messages; anything else is logged, reported to
// Sentry, and returned as an opaque 500.
func RespondError(c *fiber.Ctx, err error) error {
	switch {
	case apperrors.IsValidation(err):
		return ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	case apperrors.IsNotFound(err):
		return ErrorResponse(c, fiber.StatusNotFound, err.Error(), nil)
	case apperrors.IsForbidden(err):
		return ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
	case apperrors.IsConflict(err):
		return ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
	default:
		logrus.WithFields(logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		}).WithError(err).Error("unhandled error")
		sentry.CaptureException(err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}
}

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}
