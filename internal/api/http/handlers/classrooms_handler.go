package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/accept/school-service/internal/api/dto"
	"github.com/accept/school-service/internal/service"
)

// ClassroomsHandler exposes classroom endpoints.
type ClassroomsHandler struct {
	classrooms *service.ClassroomService
}

// NewClassroomsHandler constructs handler.
func NewClassroomsHandler(classrooms *service.ClassroomService) *ClassroomsHandler {
	return &ClassroomsHandler{classrooms: classrooms}
}

func classroomInput(req dto.ClassroomRequest) service.ClassroomInput {
	return service.ClassroomInput{Name: req.Name, Instructor: req.Instructor}
}

// List handles GET /classes.
func (h *ClassroomsHandler) List(c *fiber.Ctx) error {
	classrooms, err := h.classrooms.List(c.UserContext(), listFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassroomResponses(classrooms)})
}

// Get handles GET /classes/:id.
func (h *ClassroomsHandler) Get(c *fiber.Ctx) error {
	details, err := h.classrooms.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassroomDetailResponse(&details.Classroom, details.Students)})
}

// Create handles POST /classes.
func (h *ClassroomsHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ClassroomRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	classroom, err := h.classrooms.Create(c.UserContext(), actor, classroomInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewClassroomResponse(classroom)})
}

// Update handles PUT /classes/:id.
func (h *ClassroomsHandler) Update(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ClassroomRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	classroom, err := h.classrooms.Update(c.UserContext(), actor, c.Params("id"), classroomInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassroomResponse(classroom)})
}

// Delete handles DELETE /classes/:id.
func (h *ClassroomsHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.classrooms.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
