package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one row per student per subject per class day,
// unique on (student, subject, date). Ingestion upserts on conflict.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	Date      time.Time        `db:"attendance_date" json:"attendance_date"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// UploadStatus reflects the outcome of a CSV ingestion run.
type UploadStatus string

const (
	UploadStatusUploaded UploadStatus = "uploaded"
	UploadStatusFailed   UploadStatus = "failed"
)

// AttendanceUpload records one CSV upload attempt for audit/history.
type AttendanceUpload struct {
	ID               string       `db:"id" json:"id"`
	UserID           string       `db:"user_id" json:"user_id"`
	DepartmentID     string       `db:"department_id" json:"department_id"`
	FileName         string       `db:"file_name" json:"file_name"`
	OriginalFileName string       `db:"original_file_name" json:"original_file_name"`
	Status           UploadStatus `db:"status" json:"status"`
	Error            *string      `db:"error" json:"error,omitempty"`
	UploadedAt       time.Time    `db:"uploaded_at" json:"uploaded_at"`
}
