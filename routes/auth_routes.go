package routes

import (
	"voice-notes/controllers"

	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, authController *controllers.AuthController, loginLimiter fiber.Handler) {
	app.Post("/auth/login", loginLimiter, authController.Login)
	app.Post("/auth/register", authController.Register)
}
