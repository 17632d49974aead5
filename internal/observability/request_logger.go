package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// RequestLogger logs each request and records its metrics. Errors are passed
// through untouched; their status is derived the same way the error handler
// renders them.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := metrics.TrackInFlight()
		defer done()

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}

		path := RoutePath(c)
		metrics.RecordRequest(path, c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("http request", fields...)
		} else {
			logger.Info("http request", fields...)
		}
		return err
	}
}

// RoutePath returns the matched route pattern so ids do not explode label
// cardinality. Requests that matched no route share one label.
func RoutePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
		return route.Path
	}
	if c.Path() == "/" {
		return "/"
	}
	return "unmatched"
}
