package models

import "time"

// Student represents a learner registered in a department. RegisterNumber
// and Name are the two fields matched against assistant questions.
type Student struct {
	ID             string    `db:"id" json:"id"`
	RegisterNumber string    `db:"register_number" json:"register_number"`
	Name           string    `db:"name" json:"name"`
	DepartmentID   string    `db:"department_id" json:"department_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	DepartmentID string
	Search       string
	Page         int
	PageSize     int
}
