package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadport/acadport-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students in the department matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	args := []interface{}{filter.DepartmentID}
	conditions := []string{"s.department_id = $1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(s.register_number) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.register_number, s.name, s.department_id, s.created_at, s.updated_at
        %s ORDER BY s.register_number LIMIT %d OFFSET %d`, base, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID within the department scope.
func (r *StudentRepository) FindByID(ctx context.Context, departmentID, id string) (*models.Student, error) {
	const query = `SELECT id, register_number, name, department_id, created_at, updated_at
        FROM students WHERE id = $1 AND department_id = $2`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, departmentID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListMarks returns the student's marks joined with subject info, ordered by
// subject code. The department filter guards against cross-department reads
// through a guessed student id.
func (r *StudentRepository) ListMarks(ctx context.Context, departmentID, studentID string) ([]models.StudentMark, error) {
	const query = `SELECT m.id, m.student_id, m.subject_id, m.cat1, m.cat2, m.cat3, m.semester,
            su.code AS subject_code, su.name AS subject_name
        FROM marks m
        INNER JOIN subjects su ON su.id = m.subject_id
        INNER JOIN students st ON st.id = m.student_id
        WHERE m.student_id = $1 AND st.department_id = $2
        ORDER BY su.code`
	var marks []models.StudentMark
	if err := r.db.SelectContext(ctx, &marks, query, studentID, departmentID); err != nil {
		return nil, fmt.Errorf("list student marks: %w", err)
	}
	return marks, nil
}

// ListRefsByDepartment returns id/register pairs for ingestion lookup maps.
func (r *StudentRepository) ListRefsByDepartment(ctx context.Context, departmentID string) ([]models.StudentRef, error) {
	const query = `SELECT id, register_number, name FROM students WHERE department_id = $1`
	var refs []models.StudentRef
	if err := r.db.SelectContext(ctx, &refs, query, departmentID); err != nil {
		return nil, fmt.Errorf("list student refs: %w", err)
	}
	return refs, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, register_number, name, department_id, created_at, updated_at)
        VALUES (:id, :register_number, :name, :department_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
