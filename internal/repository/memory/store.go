// Package memory provides process-local implementations of the repositories.
// They enforce the same uniqueness and cascade rules as the PostgreSQL schema
// and back the service when no database is configured.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
)

// Store holds all records behind a single lock.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	employees  map[string]domain.Employee
	classrooms map[string]domain.Classroom
	students   map[string]domain.Student
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		now:        time.Now,
		employees:  map[string]domain.Employee{},
		classrooms: map[string]domain.Classroom{},
		students:   map[string]domain.Student{},
	}
}

// Employees returns the employee repository view of the store.
func (s *Store) Employees() repository.EmployeeRepository { return &employeeRepo{s: s} }

// Classrooms returns the classroom repository view of the store.
func (s *Store) Classrooms() repository.ClassroomRepository { return &classroomRepo{s: s} }

// Students returns the student repository view of the store.
func (s *Store) Students() repository.StudentRepository { return &studentRepo{s: s} }

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func fold(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func page[T any](items []T, filter repository.ListFilter) []T {
	filter = filter.Normalize()
	if filter.Offset >= len(items) {
		return []T{}
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[filter.Offset:end]
}

func sortByCreated[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci.Equal(cj) {
			return id(items[i]) < id(items[j])
		}
		return ci.Before(cj)
	})
}

func newID() string {
	return uuid.NewString()
}
