package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceGetSetAndMetrics(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, 0, nil, true)
	ctx := context.Background()

	var dest []string
	hit, err := svc.Get(ctx, StudentScheduleKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, StudentScheduleKey(1), []string{"a"}, 0))
	hit, err = svc.Get(ctx, StudentScheduleKey(1), &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, dest)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	hit, err := svc.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, repo.gets)
	assert.NoError(t, svc.InvalidateStudent(ctx, 1))
	assert.NoError(t, svc.Flush(ctx))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.NoError(t, nilSvc.InvalidateTeacher(ctx, 1))
}

func TestCacheServiceInvalidation(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, true)
	ctx := context.Background()

	for _, key := range []string{
		StudentScheduleKey(1), StudentScheduleKey(2),
		StudentReportsKey(1, 1, 20), StudentReportsKey(1, 2, 20), StudentReportsKey(11, 1, 20),
		TeacherFreeSlotsKey(5, 0), TeacherFreeSlotsKey(5, 45), TeacherFreeSlotsKey(50, 45),
	} {
		require.NoError(t, repo.Set(ctx, key, 1, 0))
	}

	require.NoError(t, svc.InvalidateStudent(ctx, 1))
	assert.False(t, repo.has(StudentScheduleKey(1)))
	assert.False(t, repo.has(StudentReportsKey(1, 2, 20)))
	assert.True(t, repo.has(StudentScheduleKey(2)))
	assert.True(t, repo.has(StudentReportsKey(11, 1, 20)))

	require.NoError(t, svc.InvalidateTeacher(ctx, 5))
	assert.False(t, repo.has(TeacherFreeSlotsKey(5, 45)))
	assert.True(t, repo.has(TeacherFreeSlotsKey(50, 45)))

	require.NoError(t, svc.Flush(ctx))
	assert.Empty(t, repo.items)

	repo.deleteErr = errors.New("boom")
	assert.Error(t, svc.InvalidateTeacher(ctx, 5))
}
