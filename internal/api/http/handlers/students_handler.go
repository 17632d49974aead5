package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/accept/school-service/internal/api/dto"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/service"
)

// StudentsHandler exposes student endpoints.
type StudentsHandler struct {
	students *service.StudentService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(students *service.StudentService) *StudentsHandler {
	return &StudentsHandler{students: students}
}

func studentInput(req dto.StudentRequest) service.StudentInput {
	return service.StudentInput{
		FullName:            req.FullName,
		Email:               req.Email,
		Age:                 req.Age,
		TeacherName:         req.TeacherName,
		RoomNumber:          req.RoomNumber,
		FirstSemesterGrade:  req.FirstSemesterGrade,
		SecondSemesterGrade: req.SecondSemesterGrade,
		ClassroomID:         req.ClassroomID,
	}
}

// List handles GET /students, optionally filtered by ?classroom_id=.
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	filter := repository.StudentFilter{ListFilter: listFilter(c)}
	if classroomID := c.Query("classroom_id"); classroomID != "" {
		filter.ClassroomID = &classroomID
	}
	students, err := h.students.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStudentResponses(students)})
}

// Get handles GET /students/:id.
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.students.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStudentResponse(student)})
}

// Create handles POST /students.
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StudentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	student, err := h.students.Create(c.UserContext(), actor, studentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStudentResponse(student)})
}

// Update handles PUT /students/:id.
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.StudentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	student, err := h.students.Update(c.UserContext(), actor, c.Params("id"), studentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStudentResponse(student)})
}

// Delete handles DELETE /students/:id.
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.students.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
