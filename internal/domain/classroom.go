package domain

import "time"

// Classroom represents a class taught by an instructor.
type Classroom struct {
	ID         string
	Name       string
	Instructor string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
