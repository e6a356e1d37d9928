package service

import (
	"context"
	"fmt"
	"time"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService namespaces cached views per department so one department's
// ingestion never evicts another's.
type CacheService struct {
	store cacheStore
}

// NewCacheService constructs a CacheService.
func NewCacheService(store cacheStore) *CacheService {
	return &CacheService{store: store}
}

// DashboardKey builds the cache key for a department's dashboard overview.
func (s *CacheService) DashboardKey(departmentID string) string {
	return fmt.Sprintf("dept:%s:dashboard", departmentID)
}

// Get reads a cached value.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.store.Get(ctx, key, dest)
}

// Set writes a cached value with a TTL.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.store.Set(ctx, key, value, ttl)
}

// InvalidateDepartment drops every cached view for the department.
func (s *CacheService) InvalidateDepartment(ctx context.Context, departmentID string) error {
	return s.store.DeleteByPattern(ctx, fmt.Sprintf("dept:%s:*", departmentID))
}
