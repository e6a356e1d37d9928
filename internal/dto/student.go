package dto

import "github.com/acadport/acadport-api/internal/models"

// MarkBreakdown is one subject's scores for a student, with normalised
// percentages alongside the raw values. A nil score means the exam has not
// been recorded yet.
type MarkBreakdown struct {
	SubjectCode     string   `json:"subject_code"`
	SubjectName     string   `json:"subject_name"`
	Cat1            *int     `json:"cat1"`
	Cat2            *int     `json:"cat2"`
	Cat3            *int     `json:"cat3"`
	Semester        *int     `json:"semester"`
	Cat1Percent     *float64 `json:"cat1_percent"`
	Cat2Percent     *float64 `json:"cat2_percent"`
	Cat3Percent     *float64 `json:"cat3_percent"`
	SemesterPercent *float64 `json:"semester_percent"`
}

// StudentDetail is the student profile with their marks per subject.
type StudentDetail struct {
	Student models.Student  `json:"student"`
	Marks   []MarkBreakdown `json:"marks"`
}
