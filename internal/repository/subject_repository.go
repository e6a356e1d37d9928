package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadport/acadport-api/internal/models"
)

// SubjectRepository manages persistence for subjects and their teacher
// assignments.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects in the department with the assigned teacher, if any.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	base := `FROM subjects s
        LEFT JOIN teacher_subjects ts ON ts.subject_id = s.id
        LEFT JOIN users u ON u.id = ts.teacher_id`
	args := []interface{}{filter.DepartmentID}
	conditions := []string{"s.department_id = $1"}

	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(s.code) LIKE $%d)", len(args)+1, len(args)+1))
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

	query := fmt.Sprintf(`SELECT s.id, s.name, s.code, s.semester, s.department_id, s.created_at, s.updated_at,
        ts.teacher_id AS teacher_id, u.full_name AS teacher_name
        %s ORDER BY s.code LIMIT %d OFFSET %d`, base, size, offset)

	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(DISTINCT s.id) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID fetches a subject by ID within the department scope.
func (r *SubjectRepository) FindByID(ctx context.Context, departmentID, id string) (*models.Subject, error) {
	const query = `SELECT id, name, code, semester, department_id, created_at, updated_at
        FROM subjects WHERE id = $1 AND department_id = $2`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id, departmentID); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByCode checks if a subject with the given code exists in the
// department, optionally excluding an ID.
func (r *SubjectRepository) ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE department_id = $1 AND LOWER(code) = LOWER($2)"
	args := []interface{}{departmentID, code}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject code: %w", err)
	}
	return true, nil
}

// ListRefsByDepartment returns id/code pairs for ingestion lookup maps.
func (r *SubjectRepository) ListRefsByDepartment(ctx context.Context, departmentID string) ([]models.SubjectRef, error) {
	const query = `SELECT id, code, name FROM subjects WHERE department_id = $1`
	var refs []models.SubjectRef
	if err := r.db.SelectContext(ctx, &refs, query, departmentID); err != nil {
		return nil, fmt.Errorf("list subject refs: %w", err)
	}
	return refs, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (id, name, code, semester, department_id, created_at, updated_at)
        VALUES (:id, :name, :code, :semester, :department_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies an existing subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, code = :code, semester = :semester, updated_at = :updated_at
        WHERE id = :id AND department_id = :department_id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject and its teacher assignments.
func (r *SubjectRepository) Delete(ctx context.Context, departmentID, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete subject assignments: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1 AND department_id = $2`, id, departmentID); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// AssignTeacher replaces any existing assignment for the subject with the
// given teacher. One teacher per subject.
func (r *SubjectRepository) AssignTeacher(ctx context.Context, subjectID, teacherID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE subject_id = $1`, subjectID); err != nil {
		return fmt.Errorf("clear subject assignment: %w", err)
	}
	const query = `INSERT INTO teacher_subjects (id, teacher_id, subject_id) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), teacherID, subjectID); err != nil {
		return fmt.Errorf("assign teacher: %w", err)
	}
	return nil
}

// RemoveTeacher clears the teacher assignment for the subject.
func (r *SubjectRepository) RemoveTeacher(ctx context.Context, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_subjects WHERE subject_id = $1`, subjectID); err != nil {
		return fmt.Errorf("remove teacher: %w", err)
	}
	return nil
}
