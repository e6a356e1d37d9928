package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

const csvDateLayout = "2006-01-02"

type attendanceWriter interface {
	BulkUpsert(ctx context.Context, records []models.AttendanceRecord) error
	CreateUpload(ctx context.Context, upload *models.AttendanceUpload) error
	ListUploads(ctx context.Context, departmentID string, limit int) ([]models.AttendanceUpload, error)
}

type refLookup interface {
	ListStudentRefs(ctx context.Context, departmentID string) ([]models.StudentRef, error)
	ListSubjectRefs(ctx context.Context, departmentID string) ([]models.SubjectRef, error)
}

type uploadStorage interface {
	Save(filename string, data []byte) (string, error)
}

type cacheInvalidator interface {
	InvalidateDepartment(ctx context.Context, departmentID string) error
}

type uploadObserver interface {
	ObserveUpload(accepted, rejected int)
}

// AttendanceUploadService ingests attendance CSV files. Expected columns:
// register_number, subject_code, date (YYYY-MM-DD), status (Present/Absent).
// Valid rows are upserted even when other rows fail; the run is recorded as
// failed only when no row could be accepted.
type AttendanceUploadService struct {
	repo    attendanceWriter
	refs    refLookup
	storage uploadStorage
	cache   cacheInvalidator
	metrics uploadObserver
	logger  *zap.Logger
}

// NewAttendanceUploadService constructs an AttendanceUploadService. cache and
// metrics may be nil.
func NewAttendanceUploadService(repo attendanceWriter, refs refLookup, storage uploadStorage, cache cacheInvalidator, metrics uploadObserver, logger *zap.Logger) *AttendanceUploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceUploadService{repo: repo, refs: refs, storage: storage, cache: cache, metrics: metrics, logger: logger}
}

// Ingest parses, validates, stores, and upserts one attendance CSV.
func (s *AttendanceUploadService) Ingest(ctx context.Context, userID, departmentID, originalFileName string, file io.Reader) (*dto.UploadResult, error) {
	if departmentID == "" {
		return nil, appErrors.ErrNoDepartment
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read uploaded file")
	}

	if originalFileName == "" {
		originalFileName = "attendance.csv"
	}
	storedName := fmt.Sprintf("%s/%s-%s", departmentID, time.Now().UTC().Format("20060102T150405"), originalFileName)
	if _, err := s.storage.Save(storedName, raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store uploaded file")
	}

	records, rowErrors, err := s.parseRows(ctx, departmentID, raw)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveUpload(len(records), len(rowErrors))
	}

	if len(records) > 0 {
		if err := s.repo.BulkUpsert(ctx, records); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist attendance records")
		}
	}

	status := models.UploadStatusUploaded
	if len(rowErrors) > 0 && len(records) == 0 {
		status = models.UploadStatusFailed
	}

	upload := &models.AttendanceUpload{
		ID:               uuid.NewString(),
		UserID:           userID,
		DepartmentID:     departmentID,
		FileName:         storedName,
		OriginalFileName: originalFileName,
		Status:           status,
		Error:            summarizeErrors(rowErrors),
	}
	if err := s.repo.CreateUpload(ctx, upload); err != nil {
		s.logger.Warn("failed to record upload history", zap.Error(err))
	}

	if status == models.UploadStatusFailed {
		return nil, appErrors.Wrap(
			fmt.Errorf("%s", strings.Join(rowErrors, "; ")),
			appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"no valid rows in uploaded file",
		)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDepartment(ctx, departmentID); err != nil {
			s.logger.Warn("failed to invalidate department cache", zap.Error(err))
		}
	}

	s.logger.Info("attendance csv ingested",
		zap.String("department_id", departmentID),
		zap.Int("inserted", len(records)),
		zap.Int("rejected", len(rowErrors)))

	return &dto.UploadResult{
		UploadID:      upload.ID,
		FileName:      storedName,
		InsertedCount: len(records),
		Warnings:      rowErrors,
		Message:       fmt.Sprintf("Processed %d records successfully.", len(records)),
	}, nil
}

// History returns the department's upload audit trail, newest first.
func (s *AttendanceUploadService) History(ctx context.Context, departmentID string, limit int) ([]models.AttendanceUpload, error) {
	uploads, err := s.repo.ListUploads(ctx, departmentID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list uploads")
	}
	return uploads, nil
}

func (s *AttendanceUploadService) parseRows(ctx context.Context, departmentID string, raw []byte) ([]models.AttendanceRecord, []string, error) {
	studentRefs, err := s.refs.ListStudentRefs(ctx, departmentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	subjectRefs, err := s.refs.ListSubjectRefs(ctx, departmentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	studentIDs := make(map[string]string, len(studentRefs))
	for _, st := range studentRefs {
		studentIDs[strings.ToLower(st.RegisterNumber)] = st.ID
	}
	subjectIDs := make(map[string]string, len(subjectRefs))
	for _, su := range subjectRefs {
		subjectIDs[strings.ToLower(su.Code)] = su.ID
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "file is not a valid CSV")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"register_number", "subject_code", "date", "status"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required column %q", required))
		}
	}

	var (
		records   []models.AttendanceRecord
		rowErrors []string
	)

	// Data starts on line 2; the header is line 1.
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: malformed CSV row", line))
			continue
		}

		regNo := strings.TrimSpace(cell(row, columns["register_number"]))
		subCode := strings.TrimSpace(cell(row, columns["subject_code"]))
		dateStr := strings.TrimSpace(cell(row, columns["date"]))
		status := models.AttendanceStatus(strings.TrimSpace(cell(row, columns["status"])))

		if regNo == "" || subCode == "" || dateStr == "" || status == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Missing required fields", line))
			continue
		}

		studentID, ok := studentIDs[strings.ToLower(regNo)]
		if !ok {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Student '%s' not found in your department", line, regNo))
			continue
		}
		subjectID, ok := subjectIDs[strings.ToLower(subCode)]
		if !ok {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Subject '%s' not found in your department", line, subCode))
			continue
		}

		date, err := time.Parse(csvDateLayout, dateStr)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: invalid date '%s', expected YYYY-MM-DD", line, dateStr))
			continue
		}
		if !status.Valid() {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: invalid status '%s', expected Present or Absent", line, status))
			continue
		}

		records = append(records, models.AttendanceRecord{
			StudentID: studentID,
			SubjectID: subjectID,
			Date:      date,
			Status:    status,
		})
	}

	return records, rowErrors, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// summarizeErrors keeps the stored audit message short: first three row
// errors, with an ellipsis when more were dropped.
func summarizeErrors(rowErrors []string) *string {
	if len(rowErrors) == 0 {
		return nil
	}
	msg := strings.Join(rowErrors[:min(3, len(rowErrors))], "; ")
	if len(rowErrors) > 3 {
		msg += "..."
	}
	return &msg
}
