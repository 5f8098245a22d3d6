package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"
)

func RequestLogger(log *slog.Logger) fiber.Handler {
	log = log.With(slog.String("component", "http_logger"))

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		log.Info("HTTP request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.IP()),
		)
		return err
	}
}
