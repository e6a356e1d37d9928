package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, departmentID, id string) (*models.Student, error)
	ListMarks(ctx context.Context, departmentID, studentID string) ([]models.StudentMark, error)
}

// StudentService provides read access to the department's student roster.
type StudentService struct {
	repo   studentRepository
	logger *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logger: logger}
}

// List returns students for a department with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student with their marks, scoped to the department.
func (s *StudentService) Get(ctx context.Context, departmentID, id string) (*dto.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, departmentID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	marks, err := s.repo.ListMarks(ctx, departmentID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch marks")
	}

	breakdown := make([]dto.MarkBreakdown, 0, len(marks))
	for _, m := range marks {
		breakdown = append(breakdown, dto.MarkBreakdown{
			SubjectCode:     m.SubjectCode,
			SubjectName:     m.SubjectName,
			Cat1:            m.Cat1,
			Cat2:            m.Cat2,
			Cat3:            m.Cat3,
			Semester:        m.Semester,
			Cat1Percent:     models.MarkPercentage(m.Cat1, true),
			Cat2Percent:     models.MarkPercentage(m.Cat2, true),
			Cat3Percent:     models.MarkPercentage(m.Cat3, true),
			SemesterPercent: models.MarkPercentage(m.Semester, false),
		})
	}

	return &dto.StudentDetail{Student: *student, Marks: breakdown}, nil
}
