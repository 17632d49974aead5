package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/accept/school-service/internal/observability"
)

// ServerConfig holds everything needed to assemble the Fiber app.
type ServerConfig struct {
	AppName        string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	RequestTimeout time.Duration
	RateLimiter    *RateLimiter
	Routes         RouteConfig
}

// NewApp builds the Fiber application with middlewares and routes attached.
func NewApp(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.RequestTimeout, cfg.RateLimiter)
	if cfg.Routes.Metrics == nil {
		cfg.Routes.Metrics = cfg.Metrics
	}
	RegisterRoutes(app, cfg.Routes)
	return app
}
