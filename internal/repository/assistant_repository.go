package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/acadport/acadport-api/internal/models"
)

// AssistantRepository serves the read-only, department-scoped queries behind
// the academic assistant. Every query takes the caller's department id; rows
// outside that department are never returned.
type AssistantRepository struct {
	db *sqlx.DB
}

// NewAssistantRepository constructs an AssistantRepository.
func NewAssistantRepository(db *sqlx.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

// FindSubjectsByText returns up to limit subjects whose code or name occurs
// as a case-insensitive substring of the question. Ordered by id so repeated
// identical questions select the same subset.
func (r *AssistantRepository) FindSubjectsByText(ctx context.Context, departmentID, question string, limit int) ([]models.SubjectRef, error) {
	query := fmt.Sprintf(`SELECT id, code, name FROM subjects
        WHERE department_id = $1
          AND (POSITION(LOWER(code) IN $2) > 0 OR POSITION(LOWER(name) IN $2) > 0)
        ORDER BY id LIMIT %d`, limit)

	var subjects []models.SubjectRef
	if err := r.db.SelectContext(ctx, &subjects, query, departmentID, strings.ToLower(question)); err != nil {
		return nil, fmt.Errorf("match subjects: %w", err)
	}
	return subjects, nil
}

// FindStudentsByText returns up to limit students whose register number or
// name occurs as a case-insensitive substring of the question.
func (r *AssistantRepository) FindStudentsByText(ctx context.Context, departmentID, question string, limit int) ([]models.StudentRef, error) {
	query := fmt.Sprintf(`SELECT id, register_number, name FROM students
        WHERE department_id = $1
          AND (POSITION(LOWER(register_number) IN $2) > 0 OR POSITION(LOWER(name) IN $2) > 0)
        ORDER BY id LIMIT %d`, limit)

	var students []models.StudentRef
	if err := r.db.SelectContext(ctx, &students, query, departmentID, strings.ToLower(question)); err != nil {
		return nil, fmt.Errorf("match students: %w", err)
	}
	return students, nil
}

// FetchMarks returns joined mark rows scoped to the department. Non-empty
// subjectIDs and studentIDs are AND-combined.
func (r *AssistantRepository) FetchMarks(ctx context.Context, departmentID string, subjectIDs, studentIDs []string, limit int) ([]models.MarkRow, error) {
	args := []interface{}{departmentID}
	conditions := []string{"st.department_id = $1"}

	if len(subjectIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("m.subject_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(subjectIDs))
	}
	if len(studentIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("m.student_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(studentIDs))
	}

	query := fmt.Sprintf(`SELECT st.name AS student_name, st.register_number AS student_register_number,
        su.code AS subject_code, su.name AS subject_name, m.cat1, m.cat2, m.cat3, m.semester
        FROM marks m
        INNER JOIN students st ON st.id = m.student_id
        INNER JOIN subjects su ON su.id = m.subject_id
        WHERE %s ORDER BY st.register_number, su.code LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var rows []models.MarkRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetch marks: %w", err)
	}
	return rows, nil
}

// FetchAttendance returns joined attendance rows ordered most recent first.
// The recency bias keeps unfiltered questions anchored to fresh data.
func (r *AssistantRepository) FetchAttendance(ctx context.Context, departmentID string, subjectIDs, studentIDs []string, limit int) ([]models.AttendanceDetailRow, error) {
	args := []interface{}{departmentID}
	conditions := []string{"st.department_id = $1"}

	if len(subjectIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("a.subject_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(subjectIDs))
	}
	if len(studentIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("a.student_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(studentIDs))
	}

	query := fmt.Sprintf(`SELECT st.name AS student_name, st.register_number AS student_register_number,
        su.code AS subject_code, a.attendance_date, a.status
        FROM attendance a
        INNER JOIN students st ON st.id = a.student_id
        INNER JOIN subjects su ON su.id = a.subject_id
        WHERE %s ORDER BY a.attendance_date DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var rows []models.AttendanceDetailRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}
	return rows, nil
}

// FetchAttendanceSample returns the newest limit status rows across the
// department, for sampled department-wide aggregation.
func (r *AssistantRepository) FetchAttendanceSample(ctx context.Context, departmentID string, limit int) ([]models.AttendanceStatusRow, error) {
	query := fmt.Sprintf(`SELECT a.status
        FROM attendance a
        INNER JOIN students st ON st.id = a.student_id
        WHERE st.department_id = $1
        ORDER BY a.attendance_date DESC LIMIT %d`, limit)

	var rows []models.AttendanceStatusRow
	if err := r.db.SelectContext(ctx, &rows, query, departmentID); err != nil {
		return nil, fmt.Errorf("sample attendance: %w", err)
	}
	return rows, nil
}

// FetchSubjectAttendance returns every attendance status for the matched
// subjects. Ordered by subject code so grouped output is deterministic.
func (r *AssistantRepository) FetchSubjectAttendance(ctx context.Context, departmentID string, subjectIDs []string) ([]models.SubjectAttendanceRow, error) {
	query := `SELECT su.code AS subject_code, su.name AS subject_name, a.status
        FROM attendance a
        INNER JOIN subjects su ON su.id = a.subject_id
        WHERE su.department_id = $1 AND a.subject_id = ANY($2)
        ORDER BY su.code, a.attendance_date`

	var rows []models.SubjectAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, departmentID, pq.Array(subjectIDs)); err != nil {
		return nil, fmt.Errorf("fetch subject attendance: %w", err)
	}
	return rows, nil
}

// FetchStudentAttendance returns every attendance status for the matched
// students together with subject codes for the per-subject breakdown.
func (r *AssistantRepository) FetchStudentAttendance(ctx context.Context, departmentID string, studentIDs []string) ([]models.StudentAttendanceRow, error) {
	query := `SELECT a.student_id, st.name AS student_name, st.register_number AS student_register_number,
        su.code AS subject_code, a.status
        FROM attendance a
        INNER JOIN students st ON st.id = a.student_id
        INNER JOIN subjects su ON su.id = a.subject_id
        WHERE st.department_id = $1 AND a.student_id = ANY($2)
        ORDER BY st.register_number, su.code, a.attendance_date`

	var rows []models.StudentAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, departmentID, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("fetch student attendance: %w", err)
	}
	return rows, nil
}
