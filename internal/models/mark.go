package models

// Mark stores exam scores for a (student, subject) pair. A nil field means
// the exam has not been recorded yet, not zero. CAT components are scored
// out of 50, the semester exam out of 100.
type Mark struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
	Cat1      *int   `db:"cat1" json:"cat1"`
	Cat2      *int   `db:"cat2" json:"cat2"`
	Cat3      *int   `db:"cat3" json:"cat3"`
	Semester  *int   `db:"semester" json:"semester"`
}

// StudentMark joins a mark with its subject for the student detail view.
type StudentMark struct {
	Mark
	SubjectCode string `db:"subject_code" json:"subject_code"`
	SubjectName string `db:"subject_name" json:"subject_name"`
}

// MarkPercentage normalises a raw component score to a percentage.
// CAT scores are doubled (out of 50 -> out of 100); semester scores are
// used as-is.
func MarkPercentage(value *int, isCAT bool) *float64 {
	if value == nil {
		return nil
	}
	pct := float64(*value)
	if isCAT {
		pct *= 2
	}
	return &pct
}
