package handlers

import (
	"errors"

	"hashprime-backend/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps workflow errors onto HTTP statuses. Anything unmatched
// is a 500; workflow code never leaks raw DB errors as client messages.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidScheme),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrInvalidStatus):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrKYCNotApproved),
		errors.Is(err, services.ErrOTPRequired):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAlreadyResolved):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
