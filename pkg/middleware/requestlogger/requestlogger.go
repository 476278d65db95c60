package requestlogger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/thorbond/bond-indexer/pkg/logger"
)

type Config struct {
	// Disable turns off logger level `INFO` for successful requests.
	Disable bool `mapstructure:"disable"`
}

// New logs every request after the handler chain has finished.
func New(config Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue stack
		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		attrs := []any{
			slog.String("event", "api_request"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("length", len(c.Response().Body())),
		}
		if requestId, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
			attrs = append(attrs, slog.String("requestId", requestId))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		ctx := c.UserContext()
		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "Incoming request", attrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "Incoming request", attrs...)
		case !config.Disable:
			logger.InfoContext(ctx, "Incoming request", attrs...)
		}

		return errors.WithStack(err)
	}
}
