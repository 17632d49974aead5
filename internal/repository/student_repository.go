package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accept/school-service/internal/domain"
)

// StudentRepository handles persistence for students. Full names are unique
// ignoring case; a conflicting write fails with ErrDuplicateName.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByFullName(ctx context.Context, fullName string) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StudentFilter) ([]domain.Student, error)
}

// StudentFilter defines query params for student listing.
type StudentFilter struct {
	ClassroomID *string
	ListFilter
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentColumns = `id, full_name, email, age, teacher_name, room_number,
        first_semester_grade, second_semester_grade, classroom_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.FullName,
		&student.Email,
		&student.Age,
		&student.TeacherName,
		&student.RoomNumber,
		&student.FirstSemesterGrade,
		&student.SecondSemesterGrade,
		&student.ClassroomID,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (full_name, email, age, teacher_name, room_number,
            first_semester_grade, second_semester_grade, classroom_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		student.FullName,
		student.Email,
		student.Age,
		student.TeacherName,
		student.RoomNumber,
		student.FirstSemesterGrade,
		student.SecondSemesterGrade,
		student.ClassroomID,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	return translate(err, ErrDuplicateName, "insert student")
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students
        SET full_name=$1, email=$2, age=$3, teacher_name=$4, room_number=$5,
            first_semester_grade=$6, second_semester_grade=$7, classroom_id=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		student.FullName,
		student.Email,
		student.Age,
		student.TeacherName,
		student.RoomNumber,
		student.FirstSemesterGrade,
		student.SecondSemesterGrade,
		student.ClassroomID,
		student.ID,
	).Scan(&student.UpdatedAt)
	return translate(err, ErrDuplicateName, "update student")
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id=$1`
	student, err := scanStudent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, nil, "get student")
	}
	return student, nil
}

func (r *studentRepository) GetByFullName(ctx context.Context, fullName string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE lower(full_name)=lower($1)`
	student, err := scanStudent(r.pool.QueryRow(ctx, query, fullName))
	if err != nil {
		return nil, translate(err, nil, "get student by name")
	}
	return student, nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id=$1`, id)
	if err != nil {
		return translate(err, nil, "delete student")
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := []any{}
	clauses := []string{}

	if filter.ClassroomID != nil {
		args = append(args, *filter.ClassroomID)
		clauses = append(clauses, fmt.Sprintf("classroom_id=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	page := filter.ListFilter.Normalize()
	query += " ORDER BY created_at, id"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, nil, "list students")
	}
	defer rows.Close()

	result := []domain.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, translate(err, nil, "scan student")
		}
		result = append(result, *student)
	}
	return result, translate(rows.Err(), nil, "iterate students")
}
