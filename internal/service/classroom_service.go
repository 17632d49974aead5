package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/validation"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// ClassroomService manages classrooms and their rosters.
type ClassroomService struct {
	classrooms repository.ClassroomRepository
	students   repository.StudentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ClassroomDependencies bundles repositories for the classroom service.
type ClassroomDependencies struct {
	ClassroomRepo repository.ClassroomRepository
	StudentRepo   repository.StudentRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ClassroomInput describes a classroom on create and full update.
type ClassroomInput struct {
	Name       string `json:"name" validate:"required,min=3,max=255"`
	Instructor string `json:"instructor" validate:"required,max=255"`
}

// ClassroomDetails is a classroom with its enrolled students.
type ClassroomDetails struct {
	Classroom domain.Classroom
	Students  []domain.Student
}

// NewClassroomService constructs the service.
func NewClassroomService(deps ClassroomDependencies) *ClassroomService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{
		classrooms: deps.ClassroomRepo,
		students:   deps.StudentRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func (in ClassroomInput) normalized() ClassroomInput {
	return ClassroomInput{Name: strings.TrimSpace(in.Name), Instructor: strings.TrimSpace(in.Instructor)}
}

// Create adds a classroom.
func (s *ClassroomService) Create(ctx context.Context, actor domain.Principal, input ClassroomInput) (*domain.Classroom, error) {
	input = input.normalized()
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	classroom := &domain.Classroom{Name: input.Name, Instructor: input.Instructor}
	if err := s.classrooms.Create(ctx, classroom); err != nil {
		return nil, s.mapStoreError(err, "")
	}
	publish(ctx, s.dispatcher, events.New(events.EventClassroomCreated, classroom.ID, principalActor(actor), events.ClassroomPayload{
		Name:       classroom.Name,
		Instructor: classroom.Instructor,
	}))
	return classroom, nil
}

// Update replaces a classroom's name and instructor.
func (s *ClassroomService) Update(ctx context.Context, actor domain.Principal, id string, input ClassroomInput) (*domain.Classroom, error) {
	input = input.normalized()
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	classroomID, err := parseID(id, "classroom")
	if err != nil {
		return nil, err
	}
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, s.mapStoreError(err, classroomID)
	}
	classroom.Name = input.Name
	classroom.Instructor = input.Instructor
	if err := s.classrooms.Update(ctx, classroom); err != nil {
		return nil, s.mapStoreError(err, classroomID)
	}
	publish(ctx, s.dispatcher, events.New(events.EventClassroomUpdated, classroom.ID, principalActor(actor), events.ClassroomPayload{
		Name:       classroom.Name,
		Instructor: classroom.Instructor,
	}))
	return classroom, nil
}

// Get returns a classroom with its students.
func (s *ClassroomService) Get(ctx context.Context, id string) (*ClassroomDetails, error) {
	classroomID, err := parseID(id, "classroom")
	if err != nil {
		return nil, err
	}
	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return nil, s.mapStoreError(err, classroomID)
	}
	students, err := s.students.List(ctx, repository.StudentFilter{
		ClassroomID: &classroomID,
		ListFilter:  repository.ListFilter{Limit: 500},
	})
	if err != nil {
		return nil, s.mapStoreError(err, classroomID)
	}
	return &ClassroomDetails{Classroom: *classroom, Students: students}, nil
}

// List returns classrooms ordered by creation time.
func (s *ClassroomService) List(ctx context.Context, filter repository.ListFilter) ([]domain.Classroom, error) {
	classrooms, err := s.classrooms.List(ctx, filter.Normalize())
	if err != nil {
		return nil, s.mapStoreError(err, "")
	}
	return classrooms, nil
}

// Delete removes a classroom and every student enrolled in it.
func (s *ClassroomService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	details, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	classroomID := details.Classroom.ID
	if err := s.classrooms.Delete(ctx, classroomID); err != nil {
		return s.mapStoreError(err, classroomID)
	}
	s.logger.Info("classroom deleted",
		zap.String("classroom_id", classroomID),
		zap.Int("students_removed", len(details.Students)))
	publish(ctx, s.dispatcher, events.New(events.EventClassroomDeleted, classroomID, principalActor(actor), events.ClassroomDeletedPayload{
		Name:            details.Classroom.Name,
		StudentsRemoved: len(details.Students),
	}))
	return nil
}

func (s *ClassroomService) mapStoreError(err error, id string) error {
	mapped := storeError(err, "classroom", id)
	if apperrors.CodeOf(mapped) == apperrors.CodeInternal {
		s.logger.Error("classroom store failure", zap.Error(err))
	}
	return mapped
}
