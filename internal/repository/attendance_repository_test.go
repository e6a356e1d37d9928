package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadport/acadport-api/internal/models"
)

func TestBulkUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{StudentID: "st-1", SubjectID: "su-1", Date: day, Status: models.AttendanceStatusPresent},
		{StudentID: "st-2", SubjectID: "su-1", Date: day, Status: models.AttendanceStatusAbsent},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO attendance`)
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "st-1", "su-1", day, string(models.AttendanceStatusPresent)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs(sqlmock.AnyArg(), "st-2", "su-1", day, string(models.AttendanceStatusAbsent)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BulkUpsert(context.Background(), records)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_EmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	err := repo.BulkUpsert(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUpload(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(`INSERT INTO attendance_uploads`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	upload := &models.AttendanceUpload{
		UserID:           "user-1",
		DepartmentID:     "dep-1",
		FileName:         "dep-1/file.csv",
		OriginalFileName: "file.csv",
		Status:           models.UploadStatusUploaded,
	}
	err := repo.CreateUpload(context.Background(), upload)
	require.NoError(t, err)
	assert.NotEmpty(t, upload.ID)
	assert.False(t, upload.UploadedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUploads(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "department_id", "file_name", "original_file_name", "status", "error", "uploaded_at"}).
		AddRow("up-1", "user-1", "dep-1", "dep-1/file.csv", "file.csv", string(models.UploadStatusUploaded), nil, now)
	mock.ExpectQuery(`FROM attendance_uploads WHERE department_id = \$1`).
		WithArgs("dep-1").
		WillReturnRows(rows)

	uploads, err := repo.ListUploads(context.Background(), "dep-1", 20)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, models.UploadStatusUploaded, uploads[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
