package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	"github.com/acadport/acadport-api/internal/models"
)

type fakeAssistantStore struct {
	subjects []models.SubjectRef
	students []models.StudentRef

	marks       []models.MarkRow
	attendance  []models.AttendanceDetailRow
	sample      []models.AttendanceStatusRow
	subjectRows []models.SubjectAttendanceRow
	studentRows []models.StudentAttendanceRow

	gotMarksSubjectIDs []string
	gotMarksStudentIDs []string
	gotMarksLimit      int
	gotSampleLimit     int
}

func (f *fakeAssistantStore) FindSubjectsByText(_ context.Context, _, _ string, limit int) ([]models.SubjectRef, error) {
	if len(f.subjects) > limit {
		return f.subjects[:limit], nil
	}
	return f.subjects, nil
}

func (f *fakeAssistantStore) FindStudentsByText(_ context.Context, _, _ string, limit int) ([]models.StudentRef, error) {
	if len(f.students) > limit {
		return f.students[:limit], nil
	}
	return f.students, nil
}

func (f *fakeAssistantStore) FetchMarks(_ context.Context, _ string, subjectIDs, studentIDs []string, limit int) ([]models.MarkRow, error) {
	f.gotMarksSubjectIDs = subjectIDs
	f.gotMarksStudentIDs = studentIDs
	f.gotMarksLimit = limit
	return f.marks, nil
}

func (f *fakeAssistantStore) FetchAttendance(_ context.Context, _ string, _, _ []string, _ int) ([]models.AttendanceDetailRow, error) {
	return f.attendance, nil
}

func (f *fakeAssistantStore) FetchAttendanceSample(_ context.Context, _ string, limit int) ([]models.AttendanceStatusRow, error) {
	f.gotSampleLimit = limit
	if len(f.sample) > limit {
		return f.sample[:limit], nil
	}
	return f.sample, nil
}

func (f *fakeAssistantStore) FetchSubjectAttendance(_ context.Context, _ string, _ []string) ([]models.SubjectAttendanceRow, error) {
	return f.subjectRows, nil
}

func (f *fakeAssistantStore) FetchStudentAttendance(_ context.Context, _ string, _ []string) ([]models.StudentAttendanceRow, error) {
	return f.studentRows, nil
}

func statusRows(present, absent int) []models.AttendanceStatusRow {
	rows := make([]models.AttendanceStatusRow, 0, present+absent)
	for i := 0; i < present; i++ {
		rows = append(rows, models.AttendanceStatusRow{Status: models.AttendanceStatusPresent})
	}
	for i := 0; i < absent; i++ {
		rows = append(rows, models.AttendanceStatusRow{Status: models.AttendanceStatusAbsent})
	}
	return rows
}

func TestBuildGeneralContext_Unfiltered(t *testing.T) {
	store := &fakeAssistantStore{}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildGeneralContext(context.Background(), "dep-1", "how is everyone doing")
	require.NoError(t, err)

	assert.Equal(t, "General/Recent", got.Meta.FilterApplied)
	assert.Empty(t, got.Meta.SubjectsFound)
	assert.Empty(t, got.Meta.StudentsFound)
	assert.Empty(t, store.gotMarksSubjectIDs)
	assert.Empty(t, store.gotMarksStudentIDs)
	assert.Equal(t, marksGeneralLimit, store.gotMarksLimit)
}

func TestBuildGeneralContext_StudentFilterRaisesMarksCap(t *testing.T) {
	store := &fakeAssistantStore{
		students: []models.StudentRef{{ID: "st-1", RegisterNumber: "21CS001", Name: "John Mathew"}},
	}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildGeneralContext(context.Background(), "dep-1", "marks of john mathew")
	require.NoError(t, err)

	assert.Equal(t, "Filtered", got.Meta.FilterApplied)
	assert.Equal(t, []string{"John Mathew"}, got.Meta.StudentsFound)
	assert.Equal(t, []string{"st-1"}, store.gotMarksStudentIDs)
	assert.Equal(t, marksFilteredLimit, store.gotMarksLimit)
}

func TestBuildGeneralContext_SubjectOnlyKeepsGeneralMarksCap(t *testing.T) {
	store := &fakeAssistantStore{
		subjects: []models.SubjectRef{{ID: "su-1", Code: "CS101", Name: "Data Structures"}},
	}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildGeneralContext(context.Background(), "dep-1", "how is cs101 going")
	require.NoError(t, err)

	assert.Equal(t, "Filtered", got.Meta.FilterApplied)
	assert.Equal(t, []string{"CS101"}, got.Meta.SubjectsFound)
	assert.Equal(t, []string{"su-1"}, store.gotMarksSubjectIDs)
	assert.Equal(t, marksGeneralLimit, store.gotMarksLimit)
}

func TestBuildGeneralContext_CombinedFiltersAreAnded(t *testing.T) {
	store := &fakeAssistantStore{
		subjects: []models.SubjectRef{{ID: "su-1", Code: "CS101", Name: "Data Structures"}},
		students: []models.StudentRef{{ID: "st-1", RegisterNumber: "21CS001", Name: "John Mathew"}},
	}
	svc := NewContextService(store, zap.NewNop())

	_, err := svc.BuildGeneralContext(context.Background(), "dep-1", "john mathew in cs101")
	require.NoError(t, err)

	assert.Equal(t, []string{"su-1"}, store.gotMarksSubjectIDs)
	assert.Equal(t, []string{"st-1"}, store.gotMarksStudentIDs)
	assert.Equal(t, marksFilteredLimit, store.gotMarksLimit)
}

func TestBuildAttendanceSummary_DepartmentMode(t *testing.T) {
	store := &fakeAssistantStore{sample: statusRows(2, 1)}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "overall attendance please")
	require.NoError(t, err)

	require.Equal(t, dto.SummaryKindDepartment, got.Kind)
	require.NotNil(t, got.Department)
	assert.Equal(t, departmentSample, store.gotSampleLimit)
	assert.Equal(t, 3, got.Department.SampleSize)
	assert.False(t, got.Department.IsSampled)
	assert.Equal(t, dto.AttendanceStats{Total: 3, Present: 2, Absent: 1, Rate: "66.7%"}, got.Department.Stats)
}

func TestBuildAttendanceSummary_DepartmentModeSampled(t *testing.T) {
	store := &fakeAssistantStore{sample: statusRows(departmentSample, 500)}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "attendance")
	require.NoError(t, err)

	require.NotNil(t, got.Department)
	assert.Equal(t, departmentSample, got.Department.SampleSize)
	assert.True(t, got.Department.IsSampled)
}

func TestBuildAttendanceSummary_DepartmentModeEmpty(t *testing.T) {
	store := &fakeAssistantStore{}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "attendance")
	require.NoError(t, err)

	require.NotNil(t, got.Department)
	assert.Equal(t, 0, got.Department.SampleSize)
	assert.False(t, got.Department.IsSampled)
	assert.Equal(t, "0%", got.Department.Stats.Rate)
}

func TestBuildAttendanceSummary_SubjectMode(t *testing.T) {
	store := &fakeAssistantStore{
		subjects: []models.SubjectRef{{ID: "su-1", Code: "CS101", Name: "Data Structures"}},
		subjectRows: []models.SubjectAttendanceRow{
			{SubjectCode: "CS101", SubjectName: "Data Structures", Status: models.AttendanceStatusPresent},
			{SubjectCode: "CS101", SubjectName: "Data Structures", Status: models.AttendanceStatusPresent},
			{SubjectCode: "CS101", SubjectName: "Data Structures", Status: models.AttendanceStatusAbsent},
		},
	}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "attendance for cs101")
	require.NoError(t, err)

	require.Equal(t, dto.SummaryKindSubject, got.Kind)
	require.Len(t, got.Subjects, 1)
	assert.Equal(t, "CS101", got.Subjects[0].Code)
	assert.Equal(t, dto.AttendanceStats{Total: 3, Present: 2, Absent: 1, Rate: "66.7%"}, got.Subjects[0].Stats)
}

func TestBuildAttendanceSummary_StudentWinsOverSubject(t *testing.T) {
	store := &fakeAssistantStore{
		subjects: []models.SubjectRef{{ID: "su-1", Code: "CS101", Name: "Data Structures"}},
		students: []models.StudentRef{{ID: "st-1", RegisterNumber: "21CS001", Name: "John Mathew"}},
		studentRows: []models.StudentAttendanceRow{
			{StudentID: "st-1", StudentName: "John Mathew", StudentRegisterNumber: "21CS001", SubjectCode: "CS101", Status: models.AttendanceStatusPresent},
		},
	}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "attendance of john mathew in cs101")
	require.NoError(t, err)

	assert.Equal(t, dto.SummaryKindStudent, got.Kind)
	assert.Nil(t, got.Subjects)
}

func TestBuildAttendanceSummary_StudentModeGroupsByID(t *testing.T) {
	store := &fakeAssistantStore{
		students: []models.StudentRef{
			{ID: "st-1", RegisterNumber: "21CS001", Name: "John"},
			{ID: "st-2", RegisterNumber: "21CS077", Name: "John"},
		},
		studentRows: []models.StudentAttendanceRow{
			{StudentID: "st-1", StudentName: "John", StudentRegisterNumber: "21CS001", SubjectCode: "CS101", Status: models.AttendanceStatusPresent},
			{StudentID: "st-1", StudentName: "John", StudentRegisterNumber: "21CS001", SubjectCode: "CS102", Status: models.AttendanceStatusAbsent},
			{StudentID: "st-2", StudentName: "John", StudentRegisterNumber: "21CS077", SubjectCode: "CS101", Status: models.AttendanceStatusAbsent},
		},
	}
	svc := NewContextService(store, zap.NewNop())

	got, err := svc.BuildAttendanceSummary(context.Background(), "dep-1", "attendance of john")
	require.NoError(t, err)

	require.Equal(t, dto.SummaryKindStudent, got.Kind)
	require.Len(t, got.Students, 2)

	first := got.Students[0]
	assert.Equal(t, "21CS001", first.RegisterNumber)
	assert.Equal(t, "50.0%", first.OverallRate)
	require.Len(t, first.Breakdown, 2)
	assert.Equal(t, dto.SubjectRate{Subject: "CS101", Rate: "100.0%"}, first.Breakdown[0])
	assert.Equal(t, dto.SubjectRate{Subject: "CS102", Rate: "0.0%"}, first.Breakdown[1])

	second := got.Students[1]
	assert.Equal(t, "21CS077", second.RegisterNumber)
	assert.Equal(t, "0.0%", second.OverallRate)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0%", formatRate(0, 0))
	assert.Equal(t, "0.0%", formatRate(0, 5))
	assert.Equal(t, "100.0%", formatRate(5, 5))
	assert.Equal(t, "66.7%", formatRate(2, 3))
	assert.Equal(t, "33.3%", formatRate(1, 3))
}
