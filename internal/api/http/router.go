package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/accept/school-service/internal/api/http/handlers"
	"github.com/accept/school-service/internal/auth"
	"github.com/accept/school-service/internal/observability"
)

// Credential endpoints share the tighter rate limit budget.
const (
	PathEmployeeCreate = "/employees/create"
	PathEmployeeLogin  = "/employees/login"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Employees      *handlers.EmployeesHandler
	Classrooms     *handlers.ClassroomsHandler
	Students       *handlers.StudentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	requireAuth := cfg.AuthMiddleware.Handle

	app.Post(PathEmployeeCreate, cfg.Employees.Create)
	app.Post(PathEmployeeLogin, cfg.Employees.Login)
	app.Get("/employees", cfg.Employees.List)
	app.Get("/employees/:id", cfg.Employees.Get)
	app.Put("/employees/update/:id", cfg.Employees.Update)
	app.Delete("/employees/delete/:id", cfg.Employees.Delete)

	app.Get("/classes", cfg.Classrooms.List)
	app.Get("/classes/:id", cfg.Classrooms.Get)
	app.Post("/classes", requireAuth, cfg.Classrooms.Create)
	app.Put("/classes/:id", requireAuth, cfg.Classrooms.Update)
	app.Delete("/classes/:id", requireAuth, cfg.Classrooms.Delete)

	app.Get("/students", cfg.Students.List)
	app.Get("/students/:id", cfg.Students.Get)
	app.Post("/students", requireAuth, cfg.Students.Create)
	app.Put("/students/:id", requireAuth, cfg.Students.Update)
	app.Delete("/students/:id", requireAuth, cfg.Students.Delete)
}
