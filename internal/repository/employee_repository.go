package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accept/school-service/internal/domain"
)

// EmployeeRepository is the credential store for employees. Implementations
// must reject a second employee with the same (case-insensitive) email with
// ErrDuplicateEmail.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Employee, error)
}

// ListFilter carries pagination for list queries.
type ListFilter struct {
	Limit  int
	Offset int
}

// Normalize applies default and bounds to the pagination window.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, password_hash, position, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, password_hash, position)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Position,
	).Scan(&employee.ID, &employee.CreatedAt, &employee.UpdatedAt)
	return translate(err, ErrDuplicateEmail, "insert employee")
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees
        SET name=$1, email=$2, password_hash=$3, position=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Position,
		employee.ID,
	).Scan(&employee.UpdatedAt)
	return translate(err, ErrDuplicateEmail, "update employee")
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`

	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.PasswordHash,
		&employee.Position,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, translate(err, nil, "get employee")
	}
	return &employee, nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lower(email)=lower($1)`

	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.PasswordHash,
		&employee.Position,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		return nil, translate(err, nil, "get employee by email")
	}
	return &employee, nil
}

func (r *employeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM employees WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, translate(err, nil, "employee exists")
	}
	return exists, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return translate(err, nil, "delete employee")
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, filter ListFilter) ([]domain.Employee, error) {
	filter = filter.Normalize()
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at, id` +
		fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err, nil, "list employees")
	}
	defer rows.Close()

	result := []domain.Employee{}
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Email,
			&employee.PasswordHash,
			&employee.Position,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, translate(err, nil, "scan employee")
		}
		result = append(result, employee)
	}
	return result, translate(rows.Err(), nil, "iterate employees")
}
