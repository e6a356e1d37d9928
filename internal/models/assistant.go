package models

import "time"

// SubjectRef is the subject metadata matched against a free-text question.
type SubjectRef struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// StudentRef is the student metadata matched against a free-text question.
type StudentRef struct {
	ID             string `db:"id" json:"id"`
	RegisterNumber string `db:"register_number" json:"register_number"`
	Name           string `db:"name" json:"name"`
}

// MarkRow is a joined mark record as handed to the assistant. Nil fields
// mean the exam has not been recorded and must stay nil in the serialized
// context so the model can report missing data.
type MarkRow struct {
	StudentName           string `db:"student_name" json:"student_name"`
	StudentRegisterNumber string `db:"student_register_number" json:"student_register_number"`
	SubjectCode           string `db:"subject_code" json:"subject_code"`
	SubjectName           string `db:"subject_name" json:"subject_name"`
	Cat1                  *int   `db:"cat1" json:"cat1"`
	Cat2                  *int   `db:"cat2" json:"cat2"`
	Cat3                  *int   `db:"cat3" json:"cat3"`
	Semester              *int   `db:"semester" json:"semester"`
}

// AttendanceDetailRow is a joined attendance record for the general context.
type AttendanceDetailRow struct {
	StudentName           string           `db:"student_name" json:"student_name"`
	StudentRegisterNumber string           `db:"student_register_number" json:"student_register_number"`
	SubjectCode           string           `db:"subject_code" json:"subject_code"`
	Date                  time.Time        `db:"attendance_date" json:"date"`
	Status                AttendanceStatus `db:"status" json:"status"`
}

// AttendanceStatusRow carries only the status for department-wide sampling.
type AttendanceStatusRow struct {
	Status AttendanceStatus `db:"status" json:"status"`
}

// SubjectAttendanceRow feeds the subject-scoped aggregation.
type SubjectAttendanceRow struct {
	SubjectCode string           `db:"subject_code" json:"subject_code"`
	SubjectName string           `db:"subject_name" json:"subject_name"`
	Status      AttendanceStatus `db:"status" json:"status"`
}

// StudentAttendanceRow feeds the student-scoped aggregation. StudentID is
// the grouping key; display names may collide between students.
type StudentAttendanceRow struct {
	StudentID             string           `db:"student_id" json:"student_id"`
	StudentName           string           `db:"student_name" json:"student_name"`
	StudentRegisterNumber string           `db:"student_register_number" json:"student_register_number"`
	SubjectCode           string           `db:"subject_code" json:"subject_code"`
	Status                AttendanceStatus `db:"status" json:"status"`
}
