package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/repository/memory"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

var testActor = domain.Principal{ID: "actor-1", Name: "John Doe", Email: "john@x.com", Position: "Engineer"}

type schoolFixture struct {
	classrooms *ClassroomService
	students   *StudentService
	events     *eventLog
}

func newSchoolFixture() *schoolFixture {
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(nil)
	log := &eventLog{}
	log.subscribe(dispatcher,
		events.EventClassroomCreated, events.EventClassroomUpdated, events.EventClassroomDeleted,
		events.EventStudentCreated, events.EventStudentUpdated, events.EventStudentDeleted)
	return &schoolFixture{
		classrooms: NewClassroomService(ClassroomDependencies{
			ClassroomRepo: store.Classrooms(),
			StudentRepo:   store.Students(),
			Dispatcher:    dispatcher,
		}),
		students: NewStudentService(StudentDependencies{
			StudentRepo:   store.Students(),
			ClassroomRepo: store.Classrooms(),
			Dispatcher:    dispatcher,
		}),
		events: log,
	}
}

func gradePtr(v float64) *float64 { return &v }

func studentInput(name string, classroomID *string) StudentInput {
	return StudentInput{
		FullName:            name,
		Email:               "student@x.com",
		Age:                 20,
		TeacherName:         "John Doe",
		RoomNumber:          "B12",
		FirstSemesterGrade:  gradePtr(8),
		SecondSemesterGrade: gradePtr(0),
		ClassroomID:         classroomID,
	}
}

func TestClassroomService_CreateValidatesName(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()

	_, err := f.classrooms.Create(ctx, testActor, ClassroomInput{Name: " ab ", Instructor: "John"})
	require.Error(t, err)
	assert.Equal(t, map[string]any{"name": "min=3"}, apperrors.ToDomainError(err).Details)

	classroom, err := f.classrooms.Create(ctx, testActor, ClassroomInput{Name: " Math 101 ", Instructor: "John"})
	require.NoError(t, err)
	assert.Equal(t, "Math 101", classroom.Name)
	assert.Equal(t, []events.EventType{events.EventClassroomCreated}, f.events.types())
	assert.Equal(t, "john@x.com", f.events.events[0].Actor.Email)
}

func TestClassroomService_UpdateGetList(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()

	math, err := f.classrooms.Create(ctx, testActor, ClassroomInput{Name: "Math 101", Instructor: "John"})
	require.NoError(t, err)
	_, err = f.classrooms.Create(ctx, testActor, ClassroomInput{Name: "Art 101", Instructor: "Jane"})
	require.NoError(t, err)

	updated, err := f.classrooms.Update(ctx, testActor, math.ID, ClassroomInput{Name: "Math 102", Instructor: "Jim"})
	require.NoError(t, err)
	assert.Equal(t, "Math 102", updated.Name)
	assert.Equal(t, math.CreatedAt, updated.CreatedAt)

	_, err = f.students.Create(ctx, testActor, studentInput("Levi Livinston", &math.ID))
	require.NoError(t, err)

	details, err := f.classrooms.Get(ctx, math.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jim", details.Classroom.Instructor)
	require.Len(t, details.Students, 1)
	assert.Equal(t, "Levi Livinston", details.Students[0].FullName)

	all, err := f.classrooms.List(ctx, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.classrooms.Get(ctx, "not-an-id")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = f.classrooms.Update(ctx, testActor, "6f1c2b8e-9d3a-4c57-8e21-0a4b5c6d7e8f", ClassroomInput{Name: "Gone", Instructor: "X"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestClassroomService_DeleteCascades(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()

	math, err := f.classrooms.Create(ctx, testActor, ClassroomInput{Name: "Math 101", Instructor: "John"})
	require.NoError(t, err)
	levi, err := f.students.Create(ctx, testActor, studentInput("Levi Livinston", &math.ID))
	require.NoError(t, err)
	loner, err := f.students.Create(ctx, testActor, studentInput("Ada Lovelace", nil))
	require.NoError(t, err)

	require.NoError(t, f.classrooms.Delete(ctx, testActor, math.ID))

	_, err = f.students.Get(ctx, levi.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = f.students.Get(ctx, loner.ID)
	assert.NoError(t, err)

	err = f.classrooms.Delete(ctx, testActor, math.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, events.EventClassroomDeleted, last.Type)
	assert.Equal(t, events.ClassroomDeletedPayload{Name: "Math 101", StudentsRemoved: 1}, last.Payload)
}

func TestStudentService_CreateRules(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()

	student, err := f.students.Create(ctx, testActor, studentInput("  Levi   Livinston ", nil))
	require.NoError(t, err)
	assert.Equal(t, "Levi Livinston", student.FullName)
	assert.InDelta(t, 4.0, student.AverageGrade(), 1e-9)

	_, err = f.students.Create(ctx, testActor, studentInput("LEVI LIVINSTON", nil))
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	missing := "6f1c2b8e-9d3a-4c57-8e21-0a4b5c6d7e8f"
	_, err = f.students.Create(ctx, testActor, studentInput("Ada Lovelace", &missing))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	bad := studentInput("Grace Hopper", nil)
	bad.Age = 0
	bad.FirstSemesterGrade = gradePtr(10.5)
	bad.SecondSemesterGrade = nil
	_, err = f.students.Create(ctx, testActor, bad)
	require.Error(t, err)
	assert.Equal(t, map[string]any{
		"age":                   "required",
		"first_semester_grade":  "max=10",
		"second_semester_grade": "required",
	}, apperrors.ToDomainError(err).Details)
}

func TestStudentService_UpdateListDelete(t *testing.T) {
	f := newSchoolFixture()
	ctx := context.Background()

	math, err := f.classrooms.Create(ctx, testActor, ClassroomInput{Name: "Math 101", Instructor: "John"})
	require.NoError(t, err)
	levi, err := f.students.Create(ctx, testActor, studentInput("Levi Livinston", nil))
	require.NoError(t, err)
	_, err = f.students.Create(ctx, testActor, studentInput("Ada Lovelace", nil))
	require.NoError(t, err)

	in := studentInput("Levi Livinston", &math.ID)
	in.Age = 21
	updated, err := f.students.Update(ctx, testActor, levi.ID, in)
	require.NoError(t, err, "keeping its own name is not a conflict")
	assert.Equal(t, 21, updated.Age)
	require.NotNil(t, updated.ClassroomID)
	assert.Equal(t, math.ID, *updated.ClassroomID)

	_, err = f.students.Update(ctx, testActor, levi.ID, studentInput("ada lovelace", nil))
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	inMath, err := f.students.List(ctx, repository.StudentFilter{ClassroomID: &math.ID})
	require.NoError(t, err)
	require.Len(t, inMath, 1)
	assert.Equal(t, levi.ID, inMath[0].ID)

	badFilter := "nope"
	_, err = f.students.List(ctx, repository.StudentFilter{ClassroomID: &badFilter})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	require.NoError(t, f.students.Delete(ctx, testActor, levi.ID))
	err = f.students.Delete(ctx, testActor, levi.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	all, err := f.students.List(ctx, repository.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
