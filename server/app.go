package server

import (
	"voice-notes/controllers"
	middleware "voice-notes/middlewares"
	"voice-notes/repository"
	"voice-notes/routes"
	service "voice-notes/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/exp/slog"
)

// Inline data-URL images travel inside note bodies.
const bodyLimit = 10 * 1024 * 1024

type Deps struct {
	Notes         controllers.NoteServiceInterface
	Auth          *service.AuthService
	Hub           *service.WebSocketService
	LoginAttempts repository.LoginAttemptRepositoryInterface
	LoginLimit    middleware.LoginLimitConfig
	CORSOrigins   string
	Log           *slog.Logger
	// Instrument runs before any route is registered, e.g. to mount metrics.
	Instrument func(app *fiber.App)
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "voice-notes",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if d.Instrument != nil {
		d.Instrument(app)
	}
	app.Use(middleware.RequestLogger(d.Log))
	if d.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: d.CORSOrigins,
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		}))
	}

	requireAuth := middleware.JWTParser(d.Auth)

	routes.AuthRoutes(app,
		controllers.NewAuthController(d.Auth, d.Log),
		middleware.LoginRateLimiter(d.LoginAttempts, d.LoginLimit, d.Log),
	)
	routes.NoteRoutes(app, controllers.NewNoteController(d.Notes, d.Log), requireAuth)
	if d.Hub != nil {
		routes.WebSocketRoutes(app, controllers.NewWebSocketController(d.Hub, d.Log), requireAuth)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "UP",
		})
	})

	return app
}
