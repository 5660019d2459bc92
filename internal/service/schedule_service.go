package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
)

type studentScheduleReader interface {
	ListRecurringByStudent(ctx context.Context, studentID int64) ([]models.RecurringPattern, error)
	ListPostponedForStudent(ctx context.Context, studentID int64) ([]models.PostponedEvent, error)
}

type studentReportReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error)
}

// ScheduleService resolves a student's upcoming lessons.
type ScheduleService struct {
	schedules      studentScheduleReader
	reports        studentReportReader
	profiles       profileReader
	engine         *scheduling.Engine
	cache          *CacheService
	metrics        *MetricsService
	logger         *zap.Logger
	defaultMinutes int
	now            func() time.Time
}

// NewScheduleService constructs the service. defaultMinutes is the lesson
// length shown for patterns that carry none.
func NewScheduleService(
	schedules studentScheduleReader,
	reports studentReportReader,
	profiles profileReader,
	engine *scheduling.Engine,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	defaultMinutes int,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMinutes <= 0 {
		defaultMinutes = 45
	}
	return &ScheduleService{
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

// ResolveStudentSchedule returns the student's upcoming recurring and
// postponed lessons, ordered by start time. No lessons is a valid result.
func (s *ScheduleService) ResolveStudentSchedule(ctx context.Context, studentID int64, opts ReadOptions) ([]models.Occurrence, error) {
	if _, err := requireUser(ctx, s.profiles, studentID, "student"); err != nil {
		return nil, err
	}

	key := StudentScheduleKey(studentID)
	if !opts.BypassCache {
		var cached []models.Occurrence
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	start := time.Now()
	patterns, err := s.schedules.ListRecurringByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load recurring schedules")
	}
	postponed, err := s.schedules.ListPostponedForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load postponed events")
	}
	reports, err := s.reports.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load reports")
	}
	s.metrics.ObserveDBQuery("student_schedule_inputs", time.Since(start))

	occurrences := s.engine.ResolveStudentSchedule(scheduling.StudentInputs{
		StudentID: studentID,
		Patterns:  patterns,
		Postponed: postponed,
		Reports:   reports,
	}, s.now())

	if err := s.enrich(ctx, studentID, occurrences); err != nil {
		return nil, err
	}
	s.metrics.RecordOccurrences(occurrences)

	if !opts.BypassCache {
		_ = s.cache.Set(ctx, key, occurrences, 0)
	}
	return occurrences, nil
}

// enrich fills display fields: teacher name, lesson name and duration.
func (s *ScheduleService) enrich(ctx context.Context, studentID int64, occurrences []models.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}
	settings, err := studentSettings(ctx, s.profiles, studentID)
	if err != nil {
		return err
	}

	seen := map[int64]struct{}{}
	var teacherIDs []int64
	for _, occ := range occurrences {
		if _, ok := seen[occ.TeacherID]; !ok {
			seen[occ.TeacherID] = struct{}{}
			teacherIDs = append(teacherIDs, occ.TeacherID)
		}
	}
	teachers, err := s.profiles.ListUsers(ctx, teacherIDs)
	if err != nil {
		return appErrors.Storage(err, "failed to load teacher profiles")
	}

	for i := range occurrences {
		occ := &occurrences[i]
		if teacher, ok := teachers[occ.TeacherID]; ok {
			occ.TeacherName = teacher.DisplayName
		}
		occ.LessonName = settings.LessonName
		if occ.LessonDuration <= 0 {
			occ.LessonDuration = settings.LessonDuration
		}
		if occ.LessonDuration <= 0 {
			occ.LessonDuration = s.defaultMinutes
		}
	}
	return nil
}
