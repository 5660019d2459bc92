package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/signedurl"
)

const feedSubjectPrefix = "student:"

// calendarNamespace seeds the deterministic event UIDs of the feed.
var calendarNamespace = uuid.MustParse("6f1c2a9e-4b0d-4c51-9a57-3d8e2f7b1c64")

type occurrenceResolver interface {
	ResolveStudentSchedule(ctx context.Context, studentID int64, opts ReadOptions) ([]models.Occurrence, error)
}

type feedSigner interface {
	Sign(subject string) (string, time.Time, error)
	Verify(token string) (string, time.Time, error)
}

// CalendarFeedService renders a student's upcoming lessons as iCalendar and
// issues the signed links calendar apps subscribe with.
type CalendarFeedService struct {
	schedules occurrenceResolver
	signer    feedSigner
	productID string
	now       func() time.Time
}

// NewCalendarFeedService constructs the service. A nil signer disables
// subscription links.
func NewCalendarFeedService(schedules occurrenceResolver, signer feedSigner, productID string) *CalendarFeedService {
	if productID == "" {
		productID = "-//tutoring-schedule-api//lessons//AR"
	}
	return &CalendarFeedService{schedules: schedules, signer: signer, productID: productID, now: time.Now}
}

// SubscriptionLink signs a feed token for the student.
func (s *CalendarFeedService) SubscriptionLink(studentID int64) (*models.FeedLink, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id must be a positive integer")
	}
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "calendar subscriptions are disabled")
	}
	token, expiresAt, err := s.signer.Sign(feedSubjectPrefix + strconv.FormatInt(studentID, 10))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign feed link")
	}
	return &models.FeedLink{StudentID: studentID, Token: token, ExpiresAt: expiresAt}, nil
}

// FeedByToken serves the feed of the student a subscription token was
// issued for.
func (s *CalendarFeedService) FeedByToken(ctx context.Context, token string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "calendar subscriptions are disabled")
	}
	subject, _, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, signedurl.ErrExpiredToken) {
			return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "feed link expired")
		}
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid feed link")
	}
	studentID, err := strconv.ParseInt(strings.TrimPrefix(subject, feedSubjectPrefix), 10, 64)
	if err != nil || !strings.HasPrefix(subject, feedSubjectPrefix) {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid feed link")
	}
	return s.StudentFeed(ctx, studentID, ReadOptions{})
}

// StudentFeed returns the serialized calendar of the student's occurrences.
func (s *CalendarFeedService) StudentFeed(ctx context.Context, studentID int64, opts ReadOptions) (string, error) {
	occurrences, err := s.schedules.ResolveStudentSchedule(ctx, studentID, opts)
	if err != nil {
		return "", err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(s.productID)
	cal.SetXWRCalName(fmt.Sprintf("Lessons %d", studentID))

	stamp := s.now().UTC()
	for _, occ := range occurrences {
		event := cal.AddEvent(occurrenceUID(occ))
		event.SetDtStampTime(stamp)
		event.SetStartAt(occ.StartsAt)
		event.SetEndAt(occ.EndsAt())
		event.SetSummary(occurrenceSummary(occ))
		if occ.TeacherName != "" {
			event.SetDescription(occ.TeacherName)
		}
	}
	return cal.Serialize(), nil
}

func occurrenceUID(occ models.Occurrence) string {
	name := fmt.Sprintf("%s/%d/%d/%s", occ.Origin, occ.ScheduleID, occ.StudentID, occ.StartsAt.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(calendarNamespace, []byte(name)).String()
}

func occurrenceSummary(occ models.Occurrence) string {
	title := occ.LessonName
	if title == "" {
		title = "Lesson"
	}
	if occ.IsPostponed {
		return title + " (postponed)"
	}
	return title
}
