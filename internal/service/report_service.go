package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
	"github.com/acadport/acadport-api/pkg/export"
)

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ReportService exports the department attendance overview as a downloadable
// file.
type ReportService struct {
	repo    dashboardRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage reportStorage
	logger  *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo dashboardRepository, storage reportStorage, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:    repo,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: storage,
		logger:  logger,
	}
}

// ReportFile is a rendered report together with its serving metadata.
type ReportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// AttendanceOverview renders the per-subject attendance report in the
// requested format and stores a copy for later retrieval.
func (s *ReportService) AttendanceOverview(ctx context.Context, departmentID string, format ReportFormat) (*ReportFile, error) {
	if departmentID == "" {
		return nil, appErrors.ErrNoDepartment
	}

	rows, err := s.repo.SubjectAttendanceOverview(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance overview")
	}
	for i := range rows {
		rows[i].Rate = percentage(rows[i].Present, rows[i].Total)
	}

	dataset := buildOverviewDataset(rows)

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format {
	case ReportFormatPDF:
		data, err = s.pdf.Render(dataset, "Department Attendance Overview")
		contentType = "application/pdf"
		ext = "pdf"
	case ReportFormatCSV, "":
		data, err = s.csv.Render(dataset)
		contentType = "text/csv"
		ext = "csv"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileName := fmt.Sprintf("%s/attendance-overview-%s.%s", departmentID, time.Now().UTC().Format("20060102T150405"), ext)
	if _, err := s.storage.Save(fileName, data); err != nil {
		s.logger.Warn("failed to archive report copy", zap.Error(err))
	}

	return &ReportFile{FileName: fileName, ContentType: contentType, Data: data}, nil
}

func buildOverviewDataset(rows []dto.SubjectOverviewRow) export.Dataset {
	headers := []string{"Subject Code", "Subject Name", "Total", "Present", "Rate (%)"}
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]string{
			"Subject Code": row.SubjectCode,
			"Subject Name": row.SubjectName,
			"Total":        strconv.Itoa(row.Total),
			"Present":      strconv.Itoa(row.Present),
			"Rate (%)":     strconv.FormatFloat(row.Rate, 'f', 1, 64),
		})
	}
	return export.Dataset{Headers: headers, Rows: out}
}
