package memory

import (
	"context"
	"time"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
)

type studentRepo struct {
	s *Store
}

func cloneStudent(student domain.Student) domain.Student {
	if student.ClassroomID != nil {
		id := *student.ClassroomID
		student.ClassroomID = &id
	}
	return student
}

func (r *studentRepo) checkLocked(student *domain.Student) error {
	key := fold(student.FullName)
	for id, existing := range r.s.students {
		if id != student.ID && fold(existing.FullName) == key {
			return repository.ErrDuplicateName
		}
	}
	if student.ClassroomID != nil {
		if _, ok := r.s.classrooms[*student.ClassroomID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	return nil
}

func (r *studentRepo) Create(_ context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	student.ID = ""
	if err := r.checkLocked(student); err != nil {
		return err
	}
	now := r.s.timestamp()
	student.ID = newID()
	student.CreatedAt = now
	student.UpdatedAt = now
	r.s.students[student.ID] = cloneStudent(*student)
	return nil
}

func (r *studentRepo) Update(_ context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.students[student.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkLocked(student); err != nil {
		return err
	}
	student.CreatedAt = current.CreatedAt
	student.UpdatedAt = r.s.timestamp()
	r.s.students[student.ID] = cloneStudent(*student)
	return nil
}

func (r *studentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	student, ok := r.s.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := cloneStudent(student)
	return &found, nil
}

func (r *studentRepo) GetByFullName(_ context.Context, fullName string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key := fold(fullName)
	for _, student := range r.s.students {
		if fold(student.FullName) == key {
			found := cloneStudent(student)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *studentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.students, id)
	return nil
}

func (r *studentRepo) List(_ context.Context, filter repository.StudentFilter) ([]domain.Student, error) {
	r.s.mu.RLock()
	result := make([]domain.Student, 0, len(r.s.students))
	for _, student := range r.s.students {
		if filter.ClassroomID != nil && (student.ClassroomID == nil || *student.ClassroomID != *filter.ClassroomID) {
			continue
		}
		result = append(result, cloneStudent(student))
	}
	r.s.mu.RUnlock()

	sortByCreated(result,
		func(s domain.Student) time.Time { return s.CreatedAt },
		func(s domain.Student) string { return s.ID })
	return page(result, filter.ListFilter), nil
}
