package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
)

const (
	generalMatchLimit  = 5
	summaryMatchLimit  = 3
	marksFilteredLimit = 50
	marksGeneralLimit  = 20
	attendanceRowLimit = 100
	departmentSample   = 1000
)

// AssistantStore is the data access surface the context builder needs.
type AssistantStore interface {
	FindSubjectsByText(ctx context.Context, departmentID, question string, limit int) ([]models.SubjectRef, error)
	FindStudentsByText(ctx context.Context, departmentID, question string, limit int) ([]models.StudentRef, error)
	FetchMarks(ctx context.Context, departmentID string, subjectIDs, studentIDs []string, limit int) ([]models.MarkRow, error)
	FetchAttendance(ctx context.Context, departmentID string, subjectIDs, studentIDs []string, limit int) ([]models.AttendanceDetailRow, error)
	FetchAttendanceSample(ctx context.Context, departmentID string, limit int) ([]models.AttendanceStatusRow, error)
	FetchSubjectAttendance(ctx context.Context, departmentID string, subjectIDs []string) ([]models.SubjectAttendanceRow, error)
	FetchStudentAttendance(ctx context.Context, departmentID string, studentIDs []string) ([]models.StudentAttendanceRow, error)
}

// ContextService assembles bounded, department-scoped data payloads for the
// assistant. Every payload is capped so prompt size stays predictable no
// matter how much data the department holds.
type ContextService struct {
	store  AssistantStore
	logger *zap.Logger
}

// NewContextService constructs a ContextService.
func NewContextService(store AssistantStore, logger *zap.Logger) *ContextService {
	return &ContextService{store: store, logger: logger}
}

// BuildGeneralContext returns detailed marks and attendance rows filtered by
// any subjects or students mentioned in the question. Matched subject and
// student filters are AND-combined: "John in CS101" narrows to that pair.
// With no matches the context falls back to a recent unfiltered slice.
func (s *ContextService) BuildGeneralContext(ctx context.Context, departmentID, question string) (*dto.AcademicContext, error) {
	subjects, err := s.store.FindSubjectsByText(ctx, departmentID, question, generalMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("match subjects: %w", err)
	}
	students, err := s.store.FindStudentsByText(ctx, departmentID, question, generalMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("match students: %w", err)
	}

	subjectIDs := make([]string, 0, len(subjects))
	subjectCodes := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		subjectIDs = append(subjectIDs, sub.ID)
		subjectCodes = append(subjectCodes, sub.Code)
	}
	studentIDs := make([]string, 0, len(students))
	studentNames := make([]string, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
		studentNames = append(studentNames, st.Name)
	}

	filtered := len(subjectIDs) > 0 || len(studentIDs) > 0

	s.logger.Debug("general context filter",
		zap.Strings("subjects", subjectCodes),
		zap.Strings("students", studentNames))

	marksLimit := marksGeneralLimit
	if len(studentIDs) > 0 {
		marksLimit = marksFilteredLimit
	}

	marks, err := s.store.FetchMarks(ctx, departmentID, subjectIDs, studentIDs, marksLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch marks: %w", err)
	}
	attendance, err := s.store.FetchAttendance(ctx, departmentID, subjectIDs, studentIDs, attendanceRowLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}

	meta := dto.ContextMeta{
		FilterApplied: "General/Recent",
		SubjectsFound: subjectCodes,
		StudentsFound: studentNames,
	}
	if filtered {
		meta.FilterApplied = "Filtered"
	}

	return &dto.AcademicContext{
		Meta:       meta,
		Marks:      marks,
		Attendance: attendance,
	}, nil
}

// BuildAttendanceSummary returns aggregated attendance for attendance-only
// questions. Granularity resolves student first, then subject, then the
// whole department; a question naming both a student and a subject is
// answered at student granularity with the per-subject breakdown.
func (s *ContextService) BuildAttendanceSummary(ctx context.Context, departmentID, question string) (*dto.AttendanceSummary, error) {
	students, err := s.store.FindStudentsByText(ctx, departmentID, question, summaryMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("match students: %w", err)
	}
	subjects, err := s.store.FindSubjectsByText(ctx, departmentID, question, summaryMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("match subjects: %w", err)
	}

	switch {
	case len(students) > 0:
		return s.studentSummary(ctx, departmentID, students)
	case len(subjects) > 0:
		return s.subjectSummary(ctx, departmentID, subjects)
	default:
		return s.departmentSummary(ctx, departmentID)
	}
}

func (s *ContextService) departmentSummary(ctx context.Context, departmentID string) (*dto.AttendanceSummary, error) {
	rows, err := s.store.FetchAttendanceSample(ctx, departmentID, departmentSample)
	if err != nil {
		return nil, fmt.Errorf("sample attendance: %w", err)
	}

	total := len(rows)
	present := 0
	for _, row := range rows {
		if row.Status == models.AttendanceStatusPresent {
			present++
		}
	}

	return &dto.AttendanceSummary{
		Kind: dto.SummaryKindDepartment,
		Department: &dto.DepartmentAttendance{
			Message:    "Overall Department Attendance",
			SampleSize: total,
			IsSampled:  total == departmentSample,
			Stats: dto.AttendanceStats{
				Total:   total,
				Present: present,
				Absent:  total - present,
				Rate:    formatRate(present, total),
			},
		},
	}, nil
}

func (s *ContextService) subjectSummary(ctx context.Context, departmentID string, matched []models.SubjectRef) (*dto.AttendanceSummary, error) {
	ids := make([]string, 0, len(matched))
	for _, sub := range matched {
		ids = append(ids, sub.ID)
	}

	rows, err := s.store.FetchSubjectAttendance(ctx, departmentID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch subject attendance: %w", err)
	}

	type subjectAcc struct {
		name    string
		total   int
		present int
	}
	order := make([]string, 0, len(matched))
	grouped := make(map[string]*subjectAcc)

	for _, row := range rows {
		acc, ok := grouped[row.SubjectCode]
		if !ok {
			acc = &subjectAcc{name: row.SubjectName}
			grouped[row.SubjectCode] = acc
			order = append(order, row.SubjectCode)
		}
		acc.total++
		if row.Status == models.AttendanceStatusPresent {
			acc.present++
		}
	}

	out := make([]dto.SubjectAttendance, 0, len(order))
	for _, code := range order {
		acc := grouped[code]
		out = append(out, dto.SubjectAttendance{
			Code: code,
			Name: acc.name,
			Stats: dto.AttendanceStats{
				Total:   acc.total,
				Present: acc.present,
				Absent:  acc.total - acc.present,
				Rate:    formatRate(acc.present, acc.total),
			},
		})
	}

	return &dto.AttendanceSummary{Kind: dto.SummaryKindSubject, Subjects: out}, nil
}

func (s *ContextService) studentSummary(ctx context.Context, departmentID string, matched []models.StudentRef) (*dto.AttendanceSummary, error) {
	ids := make([]string, 0, len(matched))
	for _, st := range matched {
		ids = append(ids, st.ID)
	}

	rows, err := s.store.FetchStudentAttendance(ctx, departmentID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch student attendance: %w", err)
	}

	type subjectCount struct {
		total   int
		present int
	}
	type studentAcc struct {
		name         string
		register     string
		total        int
		present      int
		subjectOrder []string
		subjects     map[string]*subjectCount
	}

	// Group by student ID, not name. Two students named "John" must not be
	// merged into one figure.
	order := make([]string, 0, len(matched))
	grouped := make(map[string]*studentAcc)

	for _, row := range rows {
		acc, ok := grouped[row.StudentID]
		if !ok {
			acc = &studentAcc{
				name:     row.StudentName,
				register: row.StudentRegisterNumber,
				subjects: make(map[string]*subjectCount),
			}
			grouped[row.StudentID] = acc
			order = append(order, row.StudentID)
		}

		acc.total++
		if row.Status == models.AttendanceStatusPresent {
			acc.present++
		}

		sc, ok := acc.subjects[row.SubjectCode]
		if !ok {
			sc = &subjectCount{}
			acc.subjects[row.SubjectCode] = sc
			acc.subjectOrder = append(acc.subjectOrder, row.SubjectCode)
		}
		sc.total++
		if row.Status == models.AttendanceStatusPresent {
			sc.present++
		}
	}

	out := make([]dto.StudentAttendance, 0, len(order))
	for _, id := range order {
		acc := grouped[id]
		breakdown := make([]dto.SubjectRate, 0, len(acc.subjectOrder))
		for _, code := range acc.subjectOrder {
			sc := acc.subjects[code]
			breakdown = append(breakdown, dto.SubjectRate{
				Subject: code,
				Rate:    formatRate(sc.present, sc.total),
			})
		}
		out = append(out, dto.StudentAttendance{
			Name:           acc.name,
			RegisterNumber: acc.register,
			OverallRate:    formatRate(acc.present, acc.total),
			Breakdown:      breakdown,
		})
	}

	return &dto.AttendanceSummary{Kind: dto.SummaryKindStudent, Students: out}, nil
}

// formatRate renders present/total as a percentage with one decimal place.
// A zero total renders as "0%", not "0.0%".
func formatRate(present, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(present)/float64(total)*100)
}
