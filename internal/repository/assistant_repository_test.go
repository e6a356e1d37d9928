package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadport/acadport-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindSubjectsByText(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name"}).
		AddRow("su-1", "CS101", "Data Structures")
	mock.ExpectQuery(`SELECT id, code, name FROM subjects`).
		WithArgs("dep-1", "how is cs101 going").
		WillReturnRows(rows)

	subjects, err := repo.FindSubjectsByText(context.Background(), "dep-1", "How is CS101 going", 5)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "CS101", subjects[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStudentsByText_LowercasesQuestion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"id", "register_number", "name"}).
		AddRow("st-1", "21CS001", "John Mathew")
	mock.ExpectQuery(`SELECT id, register_number, name FROM students`).
		WithArgs("dep-1", "marks of john mathew").
		WillReturnRows(rows)

	students, err := repo.FindStudentsByText(context.Background(), "dep-1", "Marks of JOHN Mathew", 3)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "21CS001", students[0].RegisterNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchMarks_AndCombinesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"student_name", "student_register_number", "subject_code", "subject_name", "cat1", "cat2", "cat3", "semester"}).
		AddRow("John", "21CS001", "CS101", "Data Structures", 40, nil, nil, 72)
	mock.ExpectQuery(`FROM marks m\s+INNER JOIN students st`).
		WithArgs("dep-1", pq.Array([]string{"su-1"}), pq.Array([]string{"st-1"})).
		WillReturnRows(rows)

	marks, err := repo.FetchMarks(context.Background(), "dep-1", []string{"su-1"}, []string{"st-1"}, 50)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	require.NotNil(t, marks[0].Cat1)
	assert.Equal(t, 40, *marks[0].Cat1)
	assert.Nil(t, marks[0].Cat2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchMarks_NoFiltersScopesDepartmentOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"student_name", "student_register_number", "subject_code", "subject_name", "cat1", "cat2", "cat3", "semester"})
	mock.ExpectQuery(`FROM marks m`).
		WithArgs("dep-1").
		WillReturnRows(rows)

	marks, err := repo.FetchMarks(context.Background(), "dep-1", nil, nil, 20)
	require.NoError(t, err)
	assert.Empty(t, marks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAttendance(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"student_name", "student_register_number", "subject_code", "attendance_date", "status"}).
		AddRow("John", "21CS001", "CS101", day, string(models.AttendanceStatusPresent))
	mock.ExpectQuery(`FROM attendance a\s+INNER JOIN students st`).
		WithArgs("dep-1", pq.Array([]string{"st-1"})).
		WillReturnRows(rows)

	att, err := repo.FetchAttendance(context.Background(), "dep-1", nil, []string{"st-1"}, 100)
	require.NoError(t, err)
	require.Len(t, att, 1)
	assert.Equal(t, models.AttendanceStatusPresent, att[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchAttendanceSample(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"status"}).
		AddRow(string(models.AttendanceStatusPresent)).
		AddRow(string(models.AttendanceStatusAbsent))
	mock.ExpectQuery(`SELECT a.status\s+FROM attendance a`).
		WithArgs("dep-1").
		WillReturnRows(rows)

	sample, err := repo.FetchAttendanceSample(context.Background(), "dep-1", 1000)
	require.NoError(t, err)
	assert.Len(t, sample, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchStudentAttendance(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssistantRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "student_name", "student_register_number", "subject_code", "status"}).
		AddRow("st-1", "John", "21CS001", "CS101", string(models.AttendanceStatusPresent))
	mock.ExpectQuery(`FROM attendance a\s+INNER JOIN students st`).
		WithArgs("dep-1", pq.Array([]string{"st-1"})).
		WillReturnRows(rows)

	att, err := repo.FetchStudentAttendance(context.Background(), "dep-1", []string{"st-1"})
	require.NoError(t, err)
	require.Len(t, att, 1)
	assert.Equal(t, "st-1", att[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
