package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accept/school-service/internal/domain"
)

// ClassroomRepository manages classroom persistence. Deleting a classroom
// removes the students enrolled in it.
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *domain.Classroom) error
	Update(ctx context.Context, classroom *domain.Classroom) error
	GetByID(ctx context.Context, id string) (*domain.Classroom, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Classroom, error)
}

type classroomRepository struct {
	pool *pgxpool.Pool
}

// NewClassroomRepository builds the repository.
func NewClassroomRepository(pool *pgxpool.Pool) ClassroomRepository {
	return &classroomRepository{pool: pool}
}

func (r *classroomRepository) Create(ctx context.Context, classroom *domain.Classroom) error {
	const query = `
        INSERT INTO classrooms (name, instructor)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		classroom.Name,
		classroom.Instructor,
	).Scan(&classroom.ID, &classroom.CreatedAt, &classroom.UpdatedAt)
	return translate(err, nil, "insert classroom")
}

func (r *classroomRepository) Update(ctx context.Context, classroom *domain.Classroom) error {
	const query = `
        UPDATE classrooms SET name=$1, instructor=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		classroom.Name,
		classroom.Instructor,
		classroom.ID,
	).Scan(&classroom.UpdatedAt)
	return translate(err, nil, "update classroom")
}

func (r *classroomRepository) GetByID(ctx context.Context, id string) (*domain.Classroom, error) {
	const query = `
        SELECT id, name, instructor, created_at, updated_at
        FROM classrooms WHERE id=$1`
	var classroom domain.Classroom
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&classroom.ID,
		&classroom.Name,
		&classroom.Instructor,
		&classroom.CreatedAt,
		&classroom.UpdatedAt,
	); err != nil {
		return nil, translate(err, nil, "get classroom")
	}
	return &classroom, nil
}

func (r *classroomRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM classrooms WHERE id=$1`, id)
	if err != nil {
		return translate(err, nil, "delete classroom")
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *classroomRepository) List(ctx context.Context, filter ListFilter) ([]domain.Classroom, error) {
	filter = filter.Normalize()
	query := `
        SELECT id, name, instructor, created_at, updated_at
        FROM classrooms ORDER BY created_at, id` +
		fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err, nil, "list classrooms")
	}
	defer rows.Close()

	result := []domain.Classroom{}
	for rows.Next() {
		var classroom domain.Classroom
		if err := rows.Scan(&classroom.ID, &classroom.Name, &classroom.Instructor, &classroom.CreatedAt, &classroom.UpdatedAt); err != nil {
			return nil, translate(err, nil, "scan classroom")
		}
		result = append(result, classroom)
	}
	return result, translate(rows.Err(), nil, "iterate classrooms")
}
