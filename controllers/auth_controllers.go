package controllers

import (
	"context"

	"voice-notes/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password string) (models.User, error)
}

type AuthController struct {
	auth AuthServiceInterface
	log  *slog.Logger
}

func NewAuthController(auth AuthServiceInterface, log *slog.Logger) *AuthController {
	return &AuthController{auth: auth, log: log.With(slog.String("component", "auth_controller"))}
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	token, err := ac.auth.Login(c.UserContext(), creds.Email, creds.Password)
	if err != nil {
		return respondError(c, ac.log, err, "Login failed")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := ac.auth.Register(c.UserContext(), creds.Email, creds.Password)
	if err != nil {
		return respondError(c, ac.log, err, "Registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": user.ID.Hex(), "email": user.Email})
}
