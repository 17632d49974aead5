package domain

import "time"

// Employee is a staff member who can authenticate against the service.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Position     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the authenticated identity view of the employee.
func (e *Employee) Principal() Principal {
	return Principal{ID: e.ID, Name: e.Name, Email: e.Email, Position: e.Position}
}
