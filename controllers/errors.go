package controllers

import (
	"errors"
	"strings"

	service "voice-notes/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"
)

// respondError maps service errors onto status codes. Anything unknown is
// logged and hidden behind fallback.
func respondError(c *fiber.Ctx, log *slog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrNoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	case errors.Is(err, service.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	case errors.Is(err, service.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	log.Error(fallback, slog.Any("error", err), slog.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}
