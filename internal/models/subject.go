package models

import "time"

// Subject represents an academic subject offered by a department.
type Subject struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Code         string    `db:"code" json:"code"`
	Semester     int       `db:"semester" json:"semester"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail includes the assigned teacher, when one exists. A subject
// has at most one teacher; assigning a new one replaces the mapping.
type SubjectDetail struct {
	Subject
	TeacherID   *string `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	DepartmentID string
	Semester     int
	Search       string
	Page         int
	PageSize     int
}

// TeacherSubject maps a teacher to a subject they handle.
type TeacherSubject struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}
