package memory

import (
	"context"
	"time"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
)

type employeeRepo struct {
	s *Store
}

func (r *employeeRepo) emailTakenLocked(email, exceptID string) bool {
	key := fold(email)
	for id, existing := range r.s.employees {
		if id != exceptID && fold(existing.Email) == key {
			return true
		}
	}
	return false
}

func (r *employeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTakenLocked(employee.Email, "") {
		return repository.ErrDuplicateEmail
	}
	now := r.s.timestamp()
	employee.ID = newID()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	r.s.employees[employee.ID] = *employee
	return nil
}

func (r *employeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.employees[employee.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTakenLocked(employee.Email, employee.ID) {
		return repository.ErrDuplicateEmail
	}
	employee.CreatedAt = current.CreatedAt
	employee.UpdatedAt = r.s.timestamp()
	r.s.employees[employee.ID] = *employee
	return nil
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	employee, ok := r.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key := fold(email)
	for _, employee := range r.s.employees {
		if fold(employee.Email) == key {
			found := employee
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *employeeRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.employees[id]
	return ok, nil
}

func (r *employeeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.employees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.employees, id)
	return nil
}

func (r *employeeRepo) List(_ context.Context, filter repository.ListFilter) ([]domain.Employee, error) {
	r.s.mu.RLock()
	result := make([]domain.Employee, 0, len(r.s.employees))
	for _, employee := range r.s.employees {
		result = append(result, employee)
	}
	r.s.mu.RUnlock()

	sortByCreated(result,
		func(e domain.Employee) time.Time { return e.CreatedAt },
		func(e domain.Employee) string { return e.ID })
	return page(result, filter), nil
}
