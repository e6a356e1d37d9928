package dto

import "time"

// DepartmentOverview is the cached dashboard payload for a department.
type DepartmentOverview struct {
	DepartmentID string               `json:"department_id"`
	Attendance   OverviewAttendance   `json:"attendance"`
	Subjects     []SubjectOverviewRow `json:"subjects"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// OverviewAttendance aggregates department-wide attendance counts.
type OverviewAttendance struct {
	Total       int     `json:"total"`
	Present     int     `json:"present"`
	Absent      int     `json:"absent"`
	OverallRate float64 `json:"overall_rate"`
}

// SubjectOverviewRow summarises attendance per subject.
type SubjectOverviewRow struct {
	SubjectID   string  `db:"subject_id" json:"subject_id"`
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	Total       int     `db:"total" json:"total"`
	Present     int     `db:"present" json:"present"`
	Rate        float64 `db:"-" json:"rate"`
}
