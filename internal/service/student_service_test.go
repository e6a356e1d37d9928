package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/models"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type fakeStudentRepo struct {
	students []models.Student
	total    int
	marks    []models.StudentMark
}

func (f *fakeStudentRepo) List(_ context.Context, _ models.StudentFilter) ([]models.Student, int, error) {
	return f.students, f.total, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, _, id string) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ListMarks(_ context.Context, _, _ string) ([]models.StudentMark, error) {
	return f.marks, nil
}

func intPtr(v int) *int { return &v }

func TestStudentGet_MarksBreakdown(t *testing.T) {
	repo := &fakeStudentRepo{
		students: []models.Student{{ID: "st-1", RegisterNumber: "21CS001", Name: "John Mathew"}},
		marks: []models.StudentMark{
			{
				Mark:        models.Mark{Cat1: intPtr(40), Semester: intPtr(72)},
				SubjectCode: "CS101",
				SubjectName: "Data Structures",
			},
		},
	}
	svc := NewStudentService(repo, zap.NewNop())

	detail, err := svc.Get(context.Background(), "dep-1", "st-1")
	require.NoError(t, err)

	assert.Equal(t, "21CS001", detail.Student.RegisterNumber)
	require.Len(t, detail.Marks, 1)
	m := detail.Marks[0]
	assert.Equal(t, "CS101", m.SubjectCode)
	require.NotNil(t, m.Cat1Percent)
	assert.Equal(t, 80.0, *m.Cat1Percent)
	require.NotNil(t, m.SemesterPercent)
	assert.Equal(t, 72.0, *m.SemesterPercent)
	assert.Nil(t, m.Cat2)
	assert.Nil(t, m.Cat2Percent)
}

func TestStudentGet_NotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, zap.NewNop())

	_, err := svc.Get(context.Background(), "dep-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentList_PaginationDefaults(t *testing.T) {
	repo := &fakeStudentRepo{
		students: []models.Student{{ID: "st-1"}, {ID: "st-2"}},
		total:    42,
	}
	svc := NewStudentService(repo, zap.NewNop())

	students, page, err := svc.List(context.Background(), models.StudentFilter{DepartmentID: "dep-1"})
	require.NoError(t, err)

	assert.Len(t, students, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 42, page.TotalCount)
}
