package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeRegistered EventType = "employee.registered"
	EventEmployeeLoggedIn   EventType = "employee.logged_in"
	EventEmployeeUpdated    EventType = "employee.updated"
	EventEmployeeDeleted    EventType = "employee.deleted"

	EventClassroomCreated EventType = "classroom.created"
	EventClassroomUpdated EventType = "classroom.updated"
	EventClassroomDeleted EventType = "classroom.deleted"

	EventStudentCreated EventType = "student.created"
	EventStudentUpdated EventType = "student.updated"
	EventStudentDeleted EventType = "student.deleted"
)

// Actor identifies the authenticated employee behind an event, if any.
type Actor struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, entityID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// EmployeePayload describes the employee an event is about.
type EmployeePayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// EmployeeUpdatedPayload lists which fields an update touched.
type EmployeeUpdatedPayload struct {
	Fields          []string `json:"fields"`
	PasswordChanged bool     `json:"password_changed"`
}

// ClassroomPayload describes a classroom.
type ClassroomPayload struct {
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
}

// ClassroomDeletedPayload reports the cascade effect of a deletion.
type ClassroomDeletedPayload struct {
	Name            string `json:"name"`
	StudentsRemoved int    `json:"students_removed"`
}

// StudentPayload describes a student.
type StudentPayload struct {
	FullName    string  `json:"full_name"`
	ClassroomID *string `json:"classroom_id,omitempty"`
}
