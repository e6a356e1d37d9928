package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/acadport/acadport-api/internal/dto"
	appErrors "github.com/acadport/acadport-api/pkg/errors"
)

type dashboardRepository interface {
	DepartmentAttendanceCounts(ctx context.Context, departmentID string) (total, present int, err error)
	SubjectAttendanceOverview(ctx context.Context, departmentID string) ([]dto.SubjectOverviewRow, error)
}

type dashboardCache interface {
	DashboardKey(departmentID string) string
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService computes the department overview, serving from cache when
// fresh. A cache failure degrades to a direct query, never to an error.
type DashboardService struct {
	repo   dashboardRepository
	cache  dashboardCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService. cache may be nil.
func NewDashboardService(repo dashboardRepository, cache dashboardCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Overview returns the department dashboard payload.
func (s *DashboardService) Overview(ctx context.Context, departmentID string) (*dto.DepartmentOverview, error) {
	if departmentID == "" {
		return nil, appErrors.ErrNoDepartment
	}

	if s.cache != nil {
		var cached dto.DepartmentOverview
		err := s.cache.Get(ctx, s.cache.DashboardKey(departmentID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	overview, err := s.compute(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cache.DashboardKey(departmentID), overview, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

func (s *DashboardService) compute(ctx context.Context, departmentID string) (*dto.DepartmentOverview, error) {
	total, present, err := s.repo.DepartmentAttendanceCounts(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute attendance counts")
	}

	subjects, err := s.repo.SubjectAttendanceOverview(ctx, departmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute subject overview")
	}
	for i := range subjects {
		subjects[i].Rate = percentage(subjects[i].Present, subjects[i].Total)
	}

	return &dto.DepartmentOverview{
		DepartmentID: departmentID,
		Attendance: dto.OverviewAttendance{
			Total:       total,
			Present:     present,
			Absent:      total - present,
			OverallRate: percentage(present, total),
		},
		Subjects:    subjects,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// percentage rounds to one decimal place; a zero total yields 0.
func percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}
