package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

const cacheNamespace = "tutoring:"

// StudentScheduleKey is the cache key of a student's resolved schedule.
func StudentScheduleKey(studentID int64) string {
	return fmt.Sprintf("%sschedules:student:%d", cacheNamespace, studentID)
}

// StudentReportsKey is the cache key of one page of a student's reports.
func StudentReportsKey(studentID int64, page, size int) string {
	return fmt.Sprintf("%sreports:student:%d:%d:%d", cacheNamespace, studentID, page, size)
}

// TeacherFreeSlotsKey is the cache key of a teacher's free slots for a lesson length.
func TeacherFreeSlotsKey(teacherID int64, lessonDuration int) string {
	return fmt.Sprintf("%sfree_slots:teacher:%d:%d", cacheNamespace, teacherID, lessonDuration)
}

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService memoizes resolved views and drops them when their inputs change.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// InvalidateStudent drops the schedule and report views of a student.
func (s *CacheService) InvalidateStudent(ctx context.Context, studentID int64) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.Delete(ctx, StudentScheduleKey(studentID)); err != nil {
		return s.invalidateFailed(StudentScheduleKey(studentID), err)
	}
	pattern := fmt.Sprintf("%sreports:student:%d:*", cacheNamespace, studentID)
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		return s.invalidateFailed(pattern, err)
	}
	return nil
}

// InvalidateTeacher drops every free-slot view of a teacher.
func (s *CacheService) InvalidateTeacher(ctx context.Context, teacherID int64) error {
	if !s.Enabled() {
		return nil
	}
	pattern := fmt.Sprintf("%sfree_slots:teacher:%d:*", cacheNamespace, teacherID)
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		return s.invalidateFailed(pattern, err)
	}
	return nil
}

// Flush drops every cached view owned by this service.
func (s *CacheService) Flush(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, cacheNamespace+"*"); err != nil {
		return s.invalidateFailed(cacheNamespace+"*", err)
	}
	s.logger.Info("cache flushed")
	return nil
}

func (s *CacheService) invalidateFailed(target string, err error) error {
	s.logger.Warn("cache invalidate failed", zap.String("target", target), zap.Error(err))
	return err
}
