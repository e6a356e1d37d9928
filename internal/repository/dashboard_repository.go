package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadport/acadport-api/internal/dto"
)

// DashboardRepository serves the aggregate queries behind the department
// overview dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type overviewCounts struct {
	Total   int `db:"total"`
	Present int `db:"present"`
}

// DepartmentAttendanceCounts returns total and present attendance counts for
// the department.
func (r *DashboardRepository) DepartmentAttendanceCounts(ctx context.Context, departmentID string) (total, present int, err error) {
	const query = `SELECT COUNT(a.id) AS total,
        COUNT(a.id) FILTER (WHERE a.status = 'Present') AS present
        FROM attendance a
        INNER JOIN students st ON st.id = a.student_id
        WHERE st.department_id = $1`

	var counts overviewCounts
	if err := r.db.GetContext(ctx, &counts, query, departmentID); err != nil {
		return 0, 0, fmt.Errorf("department attendance counts: %w", err)
	}
	return counts.Total, counts.Present, nil
}

// SubjectAttendanceOverview returns per-subject attendance counts for the
// department, ordered by subject code.
func (r *DashboardRepository) SubjectAttendanceOverview(ctx context.Context, departmentID string) ([]dto.SubjectOverviewRow, error) {
	const query = `SELECT su.id AS subject_id, su.code AS subject_code, su.name AS subject_name,
        COUNT(a.id) AS total,
        COUNT(a.id) FILTER (WHERE a.status = 'Present') AS present
        FROM subjects su
        LEFT JOIN attendance a ON a.subject_id = su.id
        WHERE su.department_id = $1
        GROUP BY su.id, su.code, su.name
        ORDER BY su.code`

	var rows []dto.SubjectOverviewRow
	if err := r.db.SelectContext(ctx, &rows, query, departmentID); err != nil {
		return nil, fmt.Errorf("subject attendance overview: %w", err)
	}
	return rows, nil
}
