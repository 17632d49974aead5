package dto

import (
	"time"

	"github.com/accept/school-service/internal/domain"
)

// ClassroomRequest payload for creating or replacing a classroom.
type ClassroomRequest struct {
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
}

// ClassroomResponse describes a classroom; Students is set on detail reads.
type ClassroomResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Instructor string            `json:"instructor"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Students   []StudentResponse `json:"students,omitempty"`
}

// StudentRequest payload for creating or replacing a student.
type StudentRequest struct {
	FullName            string   `json:"full_name"`
	Email               string   `json:"email"`
	Age                 int      `json:"age"`
	TeacherName         string   `json:"teacher_name"`
	RoomNumber          string   `json:"room_number"`
	FirstSemesterGrade  *float64 `json:"first_semester_grade"`
	SecondSemesterGrade *float64 `json:"second_semester_grade"`
	ClassroomID         *string  `json:"classroom_id"`
}

// StudentResponse describes a student including the derived average grade.
type StudentResponse struct {
	ID                  string    `json:"id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Age                 int       `json:"age"`
	TeacherName         string    `json:"teacher_name"`
	RoomNumber          string    `json:"room_number"`
	FirstSemesterGrade  float64   `json:"first_semester_grade"`
	SecondSemesterGrade float64   `json:"second_semester_grade"`
	AverageGrade        float64   `json:"average_grade"`
	ClassroomID         *string   `json:"classroom_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewClassroomResponse maps a classroom without its roster.
func NewClassroomResponse(c *domain.Classroom) ClassroomResponse {
	return ClassroomResponse{
		ID:         c.ID,
		Name:       c.Name,
		Instructor: c.Instructor,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// NewClassroomDetailResponse maps a classroom with its students.
func NewClassroomDetailResponse(c *domain.Classroom, students []domain.Student) ClassroomResponse {
	resp := NewClassroomResponse(c)
	resp.Students = NewStudentResponses(students)
	return resp
}

// NewClassroomResponses maps a list of classrooms.
func NewClassroomResponses(classrooms []domain.Classroom) []ClassroomResponse {
	out := make([]ClassroomResponse, 0, len(classrooms))
	for i := range classrooms {
		out = append(out, NewClassroomResponse(&classrooms[i]))
	}
	return out
}

// NewStudentResponse maps a student.
func NewStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		ID:                  s.ID,
		FullName:            s.FullName,
		Email:               s.Email,
		Age:                 s.Age,
		TeacherName:         s.TeacherName,
		RoomNumber:          s.RoomNumber,
		FirstSemesterGrade:  s.FirstSemesterGrade,
		SecondSemesterGrade: s.SecondSemesterGrade,
		AverageGrade:        s.AverageGrade(),
		ClassroomID:         s.ClassroomID,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// NewStudentResponses maps a list of students.
func NewStudentResponses(students []domain.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, NewStudentResponse(&students[i]))
	}
	return out
}
