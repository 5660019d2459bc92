package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

type freeWindowReader interface {
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.FreeWindow, error)
}

type teacherScheduleReader interface {
	ListPostponedByTeacher(ctx context.Context, teacherID int64, from string) ([]models.PostponedEvent, error)
}

type teacherReportReader interface {
	ListByTeacherSince(ctx context.Context, teacherID int64, from string) ([]models.Report, error)
}

// FreeSlotService resolves a teacher's bookable free windows.
type FreeSlotService struct {
	windows        freeWindowReader
	schedules      teacherScheduleReader
	reports        teacherReportReader
	profiles       profileReader
	engine         *scheduling.Engine
	cache          *CacheService
	metrics        *MetricsService
	logger         *zap.Logger
	defaultMinutes int
	now            func() time.Time
}

// NewFreeSlotService constructs the service. defaultMinutes is the lesson
// length reported when the caller supplies none.
func NewFreeSlotService(
	windows freeWindowReader,
	schedules teacherScheduleReader,
	reports teacherReportReader,
	profiles profileReader,
	engine *scheduling.Engine,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	defaultMinutes int,
) *FreeSlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMinutes <= 0 {
		defaultMinutes = 45
	}
	return &FreeSlotService{
		windows:        windows,
		schedules:      schedules,
		reports:        reports,
		profiles:       profiles,
		engine:         engine,
		cache:          cache,
		metrics:        metrics,
		logger:         logger,
		defaultMinutes: defaultMinutes,
		now:            time.Now,
	}
}

// ResolveTeacherFreeSlots returns the teacher's free windows with active
// postponed lessons cut out. A positive lessonDuration also drops windows and
// parts shorter than it.
func (s *FreeSlotService) ResolveTeacherFreeSlots(ctx context.Context, teacherID int64, lessonDuration int, opts ReadOptions) (*models.FreeSlotResult, error) {
	if lessonDuration < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lesson duration must not be negative")
	}
	if _, err := requireUser(ctx, s.profiles, teacherID, "teacher"); err != nil {
		return nil, err
	}

	key := TeacherFreeSlotsKey(teacherID, lessonDuration)
	if !opts.BypassCache {
		var cached models.FreeSlotResult
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	now := s.now()
	today := now.In(s.engine.Location()).Format("2006-01-02")

	start := time.Now()
	windows, err := s.windows.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load free slots")
	}
	postponed, err := s.schedules.ListPostponedByTeacher(ctx, teacherID, today)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load postponed events")
	}
	reports, err := s.reports.ListByTeacherSince(ctx, teacherID, today)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load reports")
	}
	s.metrics.ObserveDBQuery("teacher_free_slot_inputs", time.Since(start))

	slots := s.engine.SplitFreeSlots(scheduling.FreeSlotInputs{
		Windows:        windows,
		Postponed:      postponed,
		Reports:        reports,
		LessonDuration: lessonDuration,
	}, now)
	s.metrics.RecordFreeSlotParts(len(slots))

	effective := lessonDuration
	if effective <= 0 {
		effective = s.defaultMinutes
	}
	result := &models.FreeSlotResult{TeacherID: teacherID, LessonDuration: effective, Slots: slots}

	if !opts.BypassCache {
		_ = s.cache.Set(ctx, key, result, 0)
	}
	return result, nil
}

// ResolveStudentFreeSlots resolves the free slots of the student's assigned
// teacher filtered by the student's lesson length.
func (s *FreeSlotService) ResolveStudentFreeSlots(ctx context.Context, studentID int64, opts ReadOptions) (*models.FreeSlotResult, error) {
	if _, err := requireUser(ctx, s.profiles, studentID, "student"); err != nil {
		return nil, err
	}
	settings, err := studentSettings(ctx, s.profiles, studentID)
	if err != nil {
		return nil, err
	}
	if settings.TeacherID == nil || *settings.TeacherID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student has no assigned teacher")
	}
	minutes := settings.LessonDuration
	if minutes <= 0 {
		minutes = s.defaultMinutes
	}
	return s.ResolveTeacherFreeSlots(ctx, *settings.TeacherID, minutes, opts)
}
