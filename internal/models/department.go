package models

// Department is the scope boundary for every query in the portal. All
// lookups are filtered by the caller's department; cross-department reads
// are never permitted.
type Department struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
