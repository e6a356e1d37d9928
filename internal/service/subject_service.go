package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error)
	FindByID(ctx context.Context, departmentID, id string) (*models.Subject, error)
	ExistsByCode(ctx context.Context, departmentID, code, excludeID string) (bool, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, departmentID, id string) error
	AssignTeacher(ctx context.Context, subjectID, teacherID string) error
	RemoveTeacher(ctx context.Context, subjectID string) error
}

type teacherLookup interface {
	FindTeacher(ctx context.Context, departmentID, id string) (*models.User, error)
	ListTeachers(ctx context.Context, departmentID string) ([]models.User, error)
}

// SubjectService provides subject management for department admins.
type SubjectService struct {
	repo      subjectRepository
	teachers  teacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, teachers teacherLookup, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// List returns subjects for a department with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create adds a subject to the department. Codes are unique per department,
// case-insensitively.
func (s *SubjectService) Create(ctx context.Context, departmentID string, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, departmentID, code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a subject with this code already exists")
	}

	subject := &models.Subject{
		Name:         strings.TrimSpace(req.Name),
		Code:         code,
		Semester:     req.Semester,
		DepartmentID: departmentID,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.logger.Info("subject created",
		zap.String("subject_id", subject.ID),
		zap.String("code", subject.Code),
		zap.String("department_id", departmentID))
	return subject, nil
}

// Update modifies a subject in the department.
func (s *SubjectService) Update(ctx context.Context, departmentID, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.repo.FindByID(ctx, departmentID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, departmentID, code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a subject with this code already exists")
	}

	subject.Name = strings.TrimSpace(req.Name)
	subject.Code = code
	subject.Semester = req.Semester

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject and its teacher assignment.
func (s *SubjectService) Delete(ctx context.Context, departmentID, id string) error {
	if _, err := s.repo.FindByID(ctx, departmentID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}
	if err := s.repo.Delete(ctx, departmentID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id), zap.String("department_id", departmentID))
	return nil
}

// AssignTeacher binds a teacher from the same department to the subject,
// replacing any existing assignment.
func (s *SubjectService) AssignTeacher(ctx context.Context, departmentID, subjectID string, req dto.AssignTeacherRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.repo.FindByID(ctx, departmentID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}

	if _, err := s.teachers.FindTeacher(ctx, departmentID, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found in this department")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch teacher")
	}

	if err := s.repo.AssignTeacher(ctx, subjectID, req.TeacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign teacher")
	}
	return nil
}

// Teachers lists the department's active teachers for the assignment picker.
func (s *SubjectService) Teachers(ctx context.Context, departmentID string) ([]models.UserInfo, error) {
	teachers, err := s.teachers.ListTeachers(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	infos := make([]models.UserInfo, 0, len(teachers))
	for _, t := range teachers {
		infos = append(infos, models.UserInfo{
			ID:           t.ID,
			Email:        t.Email,
			FullName:     t.FullName,
			Role:         t.Role,
			DepartmentID: t.DepartmentID,
		})
	}
	return infos, nil
}

// RemoveTeacher clears the subject's teacher assignment.
func (s *SubjectService) RemoveTeacher(ctx context.Context, departmentID, subjectID string) error {
	if _, err := s.repo.FindByID(ctx, departmentID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}
	if err := s.repo.RemoveTeacher(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove teacher")
	}
	return nil
}
