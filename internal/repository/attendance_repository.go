package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadport/acadport-api/internal/models"
)

// AttendanceRepository manages persistence for attendance records and CSV
// upload history.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// BulkUpsert writes the given records in a single transaction. A record for
// an existing (student, subject, date) key overwrites the stored status, so
// re-uploading a corrected CSV is safe.
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance upsert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO attendance (id, student_id, subject_id, attendance_date, status)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (student_id, subject_id, attendance_date)
        DO UPDATE SET status = EXCLUDED.status`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare attendance upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, rec.StudentID, rec.SubjectID, rec.Date, rec.Status); err != nil {
			return fmt.Errorf("upsert attendance row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance upsert: %w", err)
	}
	return nil
}

// CreateUpload records the outcome of one CSV ingestion run.
func (r *AttendanceRepository) CreateUpload(ctx context.Context, upload *models.AttendanceUpload) error {
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_uploads (id, user_id, department_id, file_name, original_file_name, status, error, uploaded_at)
        VALUES (:id, :user_id, :department_id, :file_name, :original_file_name, :status, :error, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, upload); err != nil {
		return fmt.Errorf("create upload record: %w", err)
	}
	return nil
}

// ListUploads returns the department's upload history, newest first.
func (r *AttendanceRepository) ListUploads(ctx context.Context, departmentID string, limit int) ([]models.AttendanceUpload, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, user_id, department_id, file_name, original_file_name, status, error, uploaded_at
        FROM attendance_uploads WHERE department_id = $1
        ORDER BY uploaded_at DESC LIMIT %d`, limit)

	var uploads []models.AttendanceUpload
	if err := r.db.SelectContext(ctx, &uploads, query, departmentID); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return uploads, nil
}
