package middleware

import (
	"strconv"
	"time"

	"voice-notes/repository"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"
)

type LoginLimitConfig struct {
	Limit  int64
	Window time.Duration
}

// LoginRateLimiter counts login attempts per client IP. A successful login
// clears the counter. Counter failures let the request through.
func LoginRateLimiter(attempts repository.LoginAttemptRepositoryInterface, cfg LoginLimitConfig, log *slog.Logger) fiber.Handler {
	log = log.With(slog.String("component", "login_rate_limiter"))

	return func(c *fiber.Ctx) error {
		if attempts == nil || cfg.Limit <= 0 {
			return c.Next()
		}

		key := c.IP()
		count, err := attempts.Increment(c.UserContext(), key, cfg.Window)
		if err != nil {
			log.Warn("login attempt counter unavailable", slog.Any("error", err))
			return c.Next()
		}
		if count > cfg.Limit {
			c.Set(fiber.HeaderRetryAfter, retryAfter(cfg.Window))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts",
			})
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() == fiber.StatusOK {
			if err := attempts.Reset(c.UserContext(), key); err != nil {
				log.Warn("reset login attempts", slog.Any("error", err))
			}
		}
		return nil
	}
}

func retryAfter(window time.Duration) string {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
