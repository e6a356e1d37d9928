package dto

import "github.com/acadport/acadport-api/internal/models"

// AskRequest is the inbound payload for the academic assistant.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse wraps the assistant's final answer text.
type AskResponse struct {
	Answer string `json:"answer"`
}

// ContextMeta tells the model whether entity filters were applied and which
// entities matched, so it can state scope in its answer.
type ContextMeta struct {
	FilterApplied string   `json:"filter_applied"`
	SubjectsFound []string `json:"subjects_found"`
	StudentsFound []string `json:"students_found"`
}

// AcademicContext is the bounded, structured payload serialized into the
// general-academic prompt.
type AcademicContext struct {
	Meta       ContextMeta                  `json:"meta"`
	Marks      []models.MarkRow             `json:"marks"`
	Attendance []models.AttendanceDetailRow `json:"attendance"`
}

// SummaryKind discriminates the attendance summary granularity.
type SummaryKind string

const (
	SummaryKindDepartment SummaryKind = "department"
	SummaryKindSubject    SummaryKind = "subject"
	SummaryKindStudent    SummaryKind = "student"
)

// AttendanceStats holds grouped present/absent counts with a pre-formatted
// rate string ("83.3%"; "0%" when total is zero).
type AttendanceStats struct {
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Rate    string `json:"rate"`
}

// DepartmentAttendance summarises a recency-biased sample across the whole
// department. IsSampled is true iff the sample hit the cap, and must be
// surfaced to the model so it does not present the figure as exhaustive.
type DepartmentAttendance struct {
	Message    string          `json:"message"`
	SampleSize int             `json:"sample_size"`
	IsSampled  bool            `json:"is_sampled"`
	Stats      AttendanceStats `json:"stats"`
}

// SubjectAttendance summarises one matched subject.
type SubjectAttendance struct {
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Stats AttendanceStats `json:"stats"`
}

// SubjectRate is one entry of a student's per-subject breakdown.
type SubjectRate struct {
	Subject string `json:"subject"`
	Rate    string `json:"rate"`
}

// StudentAttendance summarises one matched student with a per-subject
// breakdown.
type StudentAttendance struct {
	Name           string        `json:"name"`
	RegisterNumber string        `json:"register_number"`
	OverallRate    string        `json:"overall_rate"`
	Breakdown      []SubjectRate `json:"breakdown"`
}

// AttendanceSummary is the aggregate payload for attendance-only questions.
// Exactly one of Department, Subjects, Students is populated per Kind.
type AttendanceSummary struct {
	Kind       SummaryKind           `json:"kind"`
	Department *DepartmentAttendance `json:"department,omitempty"`
	Subjects   []SubjectAttendance   `json:"subjects,omitempty"`
	Students   []StudentAttendance   `json:"students,omitempty"`
}
