package memory

import (
	"context"
	"time"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
)

type classroomRepo struct {
	s *Store
}

func (r *classroomRepo) Create(_ context.Context, classroom *domain.Classroom) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	classroom.ID = newID()
	classroom.CreatedAt = now
	classroom.UpdatedAt = now
	r.s.classrooms[classroom.ID] = *classroom
	return nil
}

func (r *classroomRepo) Update(_ context.Context, classroom *domain.Classroom) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.classrooms[classroom.ID]
	if !ok {
		return repository.ErrNotFound
	}
	classroom.CreatedAt = current.CreatedAt
	classroom.UpdatedAt = r.s.timestamp()
	r.s.classrooms[classroom.ID] = *classroom
	return nil
}

func (r *classroomRepo) GetByID(_ context.Context, id string) (*domain.Classroom, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	classroom, ok := r.s.classrooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &classroom, nil
}

// Delete removes the classroom and cascades to its students.
func (r *classroomRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.classrooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.classrooms, id)
	for studentID, student := range r.s.students {
		if student.ClassroomID != nil && *student.ClassroomID == id {
			delete(r.s.students, studentID)
		}
	}
	return nil
}

func (r *classroomRepo) List(_ context.Context, filter repository.ListFilter) ([]domain.Classroom, error) {
	r.s.mu.RLock()
	result := make([]domain.Classroom, 0, len(r.s.classrooms))
	for _, classroom := range r.s.classrooms {
		result = append(result, classroom)
	}
	r.s.mu.RUnlock()

	sortByCreated(result,
		func(c domain.Classroom) time.Time { return c.CreatedAt },
		func(c domain.Classroom) string { return c.ID })
	return page(result, filter), nil
}
