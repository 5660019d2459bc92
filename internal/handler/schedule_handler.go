package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type studentScheduleService interface {
	ResolveStudentSchedule(ctx context.Context, studentID int64, opts service.ReadOptions) ([]models.Occurrence, error)
}

type calendarFeedService interface {
	StudentFeed(ctx context.Context, studentID int64, opts service.ReadOptions) (string, error)
	SubscriptionLink(studentID int64) (*models.FeedLink, error)
	FeedByToken(ctx context.Context, token string) (string, error)
}

// ScheduleHandler exposes resolved student schedules.
type ScheduleHandler struct {
	schedules studentScheduleService
	calendar  calendarFeedService
}

// NewScheduleHandler constructs the schedule handler.
func NewScheduleHandler(schedules studentScheduleService, calendar calendarFeedService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, calendar: calendar}
}

// StudentSchedule godoc
// @Summary Resolve a student's upcoming lessons
// @Description Expands recurring patterns over the lookahead window and merges active postponed lessons, ordered by start time.
// @Tags Schedules
// @Produce json
// @Param id path int true "Student ID"
// @Param _t query string false "Bypass the cache"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/schedule [get]
func (h *ScheduleHandler) StudentSchedule(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	occurrences, err := h.schedules.ResolveStudentSchedule(c.Request.Context(), studentID, readOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["count"] = len(occurrences)
	response.JSON(c, http.StatusOK, occurrences, nil, meta)
}

// StudentCalendar godoc
// @Summary Student schedule as an iCalendar feed
// @Tags Schedules
// @Produce text/calendar
// @Param id path int true "Student ID"
// @Param _t query string false "Bypass the cache"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/calendar.ics [get]
func (h *ScheduleHandler) StudentCalendar(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	feed, err := h.calendar.StudentFeed(c.Request.Context(), studentID, readOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	writeCalendar(c, feed)
}

// CalendarLink godoc
// @Summary Signed calendar subscription link
// @Description Returns an expiring URL calendar apps can poll without a bearer token.
// @Tags Schedules
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/calendar-link [get]
func (h *ScheduleHandler) CalendarLink(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	link, err := h.calendar.SubscriptionLink(studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	link.URL = requestBaseURL(c) + "/feeds/" + link.Token + ".ics"
	response.JSON(c, http.StatusOK, link, nil)
}

// SubscribedFeed godoc
// @Summary Calendar feed behind a signed link
// @Tags Schedules
// @Produce text/calendar
// @Param token path string true "Feed token"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 401 {object} response.Envelope
// @Router /feeds/{token} [get]
func (h *ScheduleHandler) SubscribedFeed(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")
	feed, err := h.calendar.FeedByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeCalendar(c, feed)
}

func writeCalendar(c *gin.Context, feed string) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host
}
