package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type fakeSubjectRepo struct {
	subjects map[string]*models.Subject
	codes    map[string]bool

	assignedSubject string
	assignedTeacher string
	removedSubject  string
}

func (f *fakeSubjectRepo) List(context.Context, models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeSubjectRepo) FindByID(_ context.Context, _, id string) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSubjectRepo) ExistsByCode(_ context.Context, _, code, _ string) (bool, error) {
	return f.codes[code], nil
}

func (f *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	subject.ID = "su-new"
	return nil
}

func (f *fakeSubjectRepo) Update(context.Context, *models.Subject) error { return nil }

func (f *fakeSubjectRepo) Delete(context.Context, string, string) error { return nil }

func (f *fakeSubjectRepo) AssignTeacher(_ context.Context, subjectID, teacherID string) error {
	f.assignedSubject = subjectID
	f.assignedTeacher = teacherID
	return nil
}

func (f *fakeSubjectRepo) RemoveTeacher(_ context.Context, subjectID string) error {
	f.removedSubject = subjectID
	return nil
}

type fakeTeacherLookup struct {
	teachers map[string]*models.User
}

func (f *fakeTeacherLookup) FindTeacher(_ context.Context, _, id string) (*models.User, error) {
	if t, ok := f.teachers[id]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherLookup) ListTeachers(context.Context, string) ([]models.User, error) {
	out := make([]models.User, 0, len(f.teachers))
	for _, t := range f.teachers {
		out = append(out, *t)
	}
	return out, nil
}

func newSubjectService(repo *fakeSubjectRepo, teachers *fakeTeacherLookup) *SubjectService {
	if teachers == nil {
		teachers = &fakeTeacherLookup{}
	}
	return NewSubjectService(repo, teachers, nil, zap.NewNop())
}

func TestSubjectCreate_DuplicateCode(t *testing.T) {
	repo := &fakeSubjectRepo{codes: map[string]bool{"CS101": true}}
	svc := newSubjectService(repo, nil)

	_, err := svc.Create(context.Background(), "dep-1", dto.CreateSubjectRequest{
		Name:     "Data Structures",
		Code:     "CS101",
		Semester: 3,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubjectCreate_Success(t *testing.T) {
	repo := &fakeSubjectRepo{codes: map[string]bool{}}
	svc := newSubjectService(repo, nil)

	subject, err := svc.Create(context.Background(), "dep-1", dto.CreateSubjectRequest{
		Name:     "  Data Structures  ",
		Code:     " CS101 ",
		Semester: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "su-new", subject.ID)
	assert.Equal(t, "Data Structures", subject.Name)
	assert.Equal(t, "CS101", subject.Code)
	assert.Equal(t, "dep-1", subject.DepartmentID)
}

func TestSubjectCreate_InvalidSemester(t *testing.T) {
	svc := newSubjectService(&fakeSubjectRepo{codes: map[string]bool{}}, nil)

	_, err := svc.Create(context.Background(), "dep-1", dto.CreateSubjectRequest{
		Name:     "Data Structures",
		Code:     "CS101",
		Semester: 9,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignTeacher_TeacherOutsideDepartment(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: map[string]*models.Subject{"su-1": {ID: "su-1"}}}
	svc := newSubjectService(repo, &fakeTeacherLookup{})

	err := svc.AssignTeacher(context.Background(), "dep-1", "su-1", dto.AssignTeacherRequest{TeacherID: "t-99"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.assignedTeacher)
}

func TestAssignTeacher_Success(t *testing.T) {
	repo := &fakeSubjectRepo{subjects: map[string]*models.Subject{"su-1": {ID: "su-1"}}}
	teachers := &fakeTeacherLookup{teachers: map[string]*models.User{
		"t-1": {ID: "t-1", Role: models.RoleTeacher, DepartmentID: "dep-1"},
	}}
	svc := newSubjectService(repo, teachers)

	err := svc.AssignTeacher(context.Background(), "dep-1", "su-1", dto.AssignTeacherRequest{TeacherID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, "su-1", repo.assignedSubject)
	assert.Equal(t, "t-1", repo.assignedTeacher)
}

func TestRemoveTeacher_SubjectNotFound(t *testing.T) {
	svc := newSubjectService(&fakeSubjectRepo{}, nil)

	err := svc.RemoveTeacher(context.Background(), "dep-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeachers(t *testing.T) {
	teachers := &fakeTeacherLookup{teachers: map[string]*models.User{
		"t-1": {ID: "t-1", FullName: "Priya Raman", Role: models.RoleTeacher, DepartmentID: "dep-1"},
	}}
	svc := newSubjectService(&fakeSubjectRepo{}, teachers)

	got, err := svc.Teachers(context.Background(), "dep-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Priya Raman", got[0].FullName)
	assert.Equal(t, "dep-1", got[0].DepartmentID)
}
