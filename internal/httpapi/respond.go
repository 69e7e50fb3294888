package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/session"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(successResponse{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(successResponse{Success: true, Data: data})
}

// statusFor maps domain errors onto HTTP statuses. Unknown errors are 500.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case engine.IsNotFound(err):
		return fiber.StatusNotFound
	case engine.IsInvalidState(err):
		return fiber.StatusConflict
	case engine.IsLocked(err):
		return fiber.StatusForbidden
	case engine.IsInsufficientFunds(err):
		return fiber.StatusPaymentRequired
	}
	var ae session.AuthError
	if errors.As(err, &ae) {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		s.log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		msg = "something went wrong, please try again"
	}
	return c.Status(status).JSON(errorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: msg,
	})
}
