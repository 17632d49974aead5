package domain

import "time"

// Student is a pupil optionally enrolled in a classroom.
type Student struct {
	ID                  string
	FullName            string
	Email               string
	Age                 int
	TeacherName         string
	RoomNumber          string
	FirstSemesterGrade  float64
	SecondSemesterGrade float64
	ClassroomID         *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AverageGrade returns the mean of both semester grades.
func (s *Student) AverageGrade() float64 {
	return (s.FirstSemesterGrade + s.SecondSemesterGrade) / 2
}
