package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
)

type postponedEventStore interface {
	ExistsPostponed(ctx context.Context, studentID, teacherID int64, date, clock string) (bool, error)
	FindLessonDuration(ctx context.Context, studentID, teacherID int64) (int, bool, error)
	CreatePostponed(ctx context.Context, ev *models.PostponedEvent) error
}

// CreatePostponedEventRequest is the payload of a one-off reschedule.
type CreatePostponedEventRequest struct {
	StudentID int64  `json:"studentId" validate:"required,gt=0"`
	TeacherID int64  `json:"teacherId" validate:"required,gt=0"`
	EventDate string `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventTime string `json:"eventTime" validate:"required"`
}

// PostponedEventService creates postponed events and guards their uniqueness.
type PostponedEventService struct {
	store          postponedEventStore
	profiles       profileReader
	cache          *CacheService
	validator      *validator.Validate
	logger         *zap.Logger
	defaultMinutes int
}

// NewPostponedEventService constructs the service. defaultMinutes is used
// when the pair has no recurring pattern to inherit a duration from.
func NewPostponedEventService(store postponedEventStore, profiles profileReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger, defaultMinutes int) *PostponedEventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMinutes <= 0 {
		defaultMinutes = 60
	}
	return &PostponedEventService{
		store:          store,
		profiles:       profiles,
		cache:          cache,
		validator:      validate,
		logger:         logger,
		defaultMinutes: defaultMinutes,
	}
}

// Create stores a postponed event for the (student, teacher, date, time)
// tuple. The existence check is a fast path for a friendly conflict message;
// the unique index in storage is what actually guarantees uniqueness under
// concurrent requests.
func (s *PostponedEventService) Create(ctx context.Context, req CreatePostponedEventRequest) (*models.PostponedEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid postponed event payload")
	}
	clock, err := timeofday.Normalize(req.EventTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event time")
	}

	if _, err := requireUser(ctx, s.profiles, req.StudentID, "student"); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.profiles, req.TeacherID, "teacher"); err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsPostponed(ctx, req.StudentID, req.TeacherID, req.EventDate, clock)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to check postponed events")
	}
	if exists {
		return nil, duplicatePostponed()
	}

	duration, found, err := s.store.FindLessonDuration(ctx, req.StudentID, req.TeacherID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load lesson duration")
	}
	if !found || duration <= 0 {
		duration = s.defaultMinutes
	}

	ev := &models.PostponedEvent{
		StoredStudentID: req.StudentID,
		OwnerStudentID:  req.StudentID,
		TeacherID:       req.TeacherID,
		Date:            req.EventDate,
		Time:            clock,
		LessonDuration:  duration,
	}
	if err := s.store.CreatePostponed(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrDuplicatePostponed) {
			return nil, duplicatePostponed()
		}
		return nil, appErrors.Storage(err, "failed to create postponed event")
	}

	s.logger.Info("postponed event created",
		zap.Int64("schedule_id", ev.ID),
		zap.Int64("student_id", ev.OwnerStudentID),
		zap.Int64("teacher_id", ev.TeacherID),
		zap.String("date", ev.Date),
		zap.String("time", ev.Time),
	)

	if err := s.cache.InvalidateStudent(ctx, ev.OwnerStudentID); err != nil {
		s.logger.Warn("postponed event cache invalidation failed", zap.Int64("student_id", ev.OwnerStudentID), zap.Error(err))
	}
	if err := s.cache.InvalidateTeacher(ctx, ev.TeacherID); err != nil {
		s.logger.Warn("postponed event cache invalidation failed", zap.Int64("teacher_id", ev.TeacherID), zap.Error(err))
	}
	return ev, nil
}

func duplicatePostponed() *appErrors.Error {
	return appErrors.Clone(appErrors.ErrDuplicate, "a postponed event already exists for this student, teacher, date and time")
}
