package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/accept/school-service/internal/api/dto"
	"github.com/accept/school-service/internal/auth"
	"github.com/accept/school-service/internal/service"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// EmployeesHandler exposes employee registration, login and maintenance.
type EmployeesHandler struct {
	employees *service.EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(employees *service.EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{employees: employees}
}

// Create handles POST /employees/create.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req dto.EmployeeCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	employee, err := h.employees.Register(c.UserContext(), service.RegisterEmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Login handles POST /employees/login.
func (h *EmployeesHandler) Login(c *fiber.Ctx) error {
	var req dto.EmployeeLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.employees.Login(c.UserContext(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLoginResponse(result.Principal, result.Token)})
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.employees.List(c.UserContext(), listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponses(employees)})
}

// Get handles GET /employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	employee, err := h.employees.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Update handles PUT /employees/update/:id. The bearer token is verified by
// the service before anything else happens.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	token, _ := auth.BearerToken(c.Get(fiber.HeaderAuthorization))

	var req dto.EmployeeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		if _, authErr := h.employees.Authorize(c.UserContext(), token); authErr != nil {
			return authErr
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employee, err := h.employees.UpdateAuthenticated(c.UserContext(), token, c.Params("id"), service.UpdateEmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Position: req.Position,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEmployeeResponse(employee)})
}

// Delete handles DELETE /employees/delete/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	if err := h.employees.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
