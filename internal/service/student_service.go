package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/validation"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// StudentService manages student records.
type StudentService struct {
	students   repository.StudentRepository
	classrooms repository.ClassroomRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// StudentDependencies bundles repositories for the student service.
type StudentDependencies struct {
	StudentRepo   repository.StudentRepository
	ClassroomRepo repository.ClassroomRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// StudentInput describes a student on create and full update.
type StudentInput struct {
	FullName            string   `json:"full_name" validate:"required,max=255"`
	Email               string   `json:"email" validate:"required,email,max=255"`
	Age                 int      `json:"age" validate:"required,min=1,max=150"`
	TeacherName         string   `json:"teacher_name" validate:"max=255"`
	RoomNumber          string   `json:"room_number" validate:"max=50"`
	FirstSemesterGrade  *float64 `json:"first_semester_grade" validate:"required,min=0,max=10"`
	SecondSemesterGrade *float64 `json:"second_semester_grade" validate:"required,min=0,max=10"`
	ClassroomID         *string  `json:"classroom_id,omitempty"`
}

// NewStudentService constructs the service.
func NewStudentService(deps StudentDependencies) *StudentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:   deps.StudentRepo,
		classrooms: deps.ClassroomRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func (in StudentInput) normalized() StudentInput {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Email = normalizeEmail(in.Email)
	in.TeacherName = strings.TrimSpace(in.TeacherName)
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.ClassroomID = trimmedOrNil(in.ClassroomID)
	return in
}

// prepare validates input and resolves the classroom reference.
func (s *StudentService) prepare(ctx context.Context, input StudentInput) (StudentInput, error) {
	input = input.normalized()
	if err := validation.Struct(input); err != nil {
		return input, err
	}
	if input.ClassroomID != nil {
		classroomID, err := parseID(*input.ClassroomID, "classroom")
		if err != nil {
			return input, err
		}
		if _, err := s.classrooms.GetByID(ctx, classroomID); err != nil {
			return input, s.mapStoreError(err, "classroom", classroomID)
		}
		input.ClassroomID = &classroomID
	}
	return input, nil
}

// checkName rejects a full name already used by a different student.
func (s *StudentService) checkName(ctx context.Context, fullName, selfID string) error {
	existing, err := s.students.GetByFullName(ctx, fullName)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewConflict("student name already exists", map[string]any{"field": "full_name"})
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return s.mapStoreError(err, "student", "")
	}
	return nil
}

func apply(student *domain.Student, input StudentInput) {
	student.FullName = input.FullName
	student.Email = input.Email
	student.Age = input.Age
	student.TeacherName = input.TeacherName
	student.RoomNumber = input.RoomNumber
	student.FirstSemesterGrade = *input.FirstSemesterGrade
	student.SecondSemesterGrade = *input.SecondSemesterGrade
	student.ClassroomID = input.ClassroomID
}

// Create enrolls a student.
func (s *StudentService) Create(ctx context.Context, actor domain.Principal, input StudentInput) (*domain.Student, error) {
	input, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, input.FullName, ""); err != nil {
		return nil, err
	}
	student := &domain.Student{}
	apply(student, input)
	if err := s.students.Create(ctx, student); err != nil {
		return nil, s.mapStoreError(err, "student", "")
	}
	publish(ctx, s.dispatcher, events.New(events.EventStudentCreated, student.ID, principalActor(actor), events.StudentPayload{
		FullName:    student.FullName,
		ClassroomID: student.ClassroomID,
	}))
	return student, nil
}

// Update replaces a student's fields.
func (s *StudentService) Update(ctx context.Context, actor domain.Principal, id string, input StudentInput) (*domain.Student, error) {
	input, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	studentID, err := parseID(id, "student")
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, s.mapStoreError(err, "student", studentID)
	}
	if err := s.checkName(ctx, input.FullName, student.ID); err != nil {
		return nil, err
	}
	apply(student, input)
	if err := s.students.Update(ctx, student); err != nil {
		return nil, s.mapStoreError(err, "student", studentID)
	}
	publish(ctx, s.dispatcher, events.New(events.EventStudentUpdated, student.ID, principalActor(actor), events.StudentPayload{
		FullName:    student.FullName,
		ClassroomID: student.ClassroomID,
	}))
	return student, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	studentID, err := parseID(id, "student")
	if err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, s.mapStoreError(err, "student", studentID)
	}
	return student, nil
}

// List returns students, optionally restricted to one classroom.
func (s *StudentService) List(ctx context.Context, filter repository.StudentFilter) ([]domain.Student, error) {
	if filter.ClassroomID != nil {
		classroomID, err := parseID(*filter.ClassroomID, "classroom")
		if err != nil {
			return nil, err
		}
		filter.ClassroomID = &classroomID
	}
	filter.ListFilter = filter.ListFilter.Normalize()
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, s.mapStoreError(err, "student", "")
	}
	return students, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	studentID, err := parseID(id, "student")
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, studentID); err != nil {
		return s.mapStoreError(err, "student", studentID)
	}
	publish(ctx, s.dispatcher, events.New(events.EventStudentDeleted, studentID, principalActor(actor), nil))
	return nil
}

func (s *StudentService) mapStoreError(err error, resource, id string) error {
	mapped := storeError(err, resource, id)
	if apperrors.CodeOf(mapped) == apperrors.CodeInternal {
		s.logger.Error("student store failure", zap.Error(err))
	}
	return mapped
}
