package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/export"
	"github.com/noah-isme/tutoring-schedule-api/pkg/timeofday"
)

type reportStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error)
	ListSessionHistory(ctx context.Context, studentID int64) ([]models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
	Create(ctx context.Context, report *models.Report) error
}

// CreateReportRequest is the payload of a new session report. Any client
// supplied session number is ignored.
type CreateReportRequest struct {
	StudentID      int64             `json:"studentId" validate:"required,gt=0"`
	TeacherID      int64             `json:"teacherId" validate:"required,gt=0"`
	Attendance     models.Attendance `json:"attendance" validate:"required"`
	Date           string            `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string            `json:"time"`
	LessonDuration int               `json:"lessonDuration" validate:"required,gt=0"`
	Evaluation     string            `json:"evaluation"`
	Grade          int               `json:"grade" validate:"min=0"`
	Tasmii         string            `json:"tasmii"`
	Tahfiz         string            `json:"tahfiz"`
	Mourajah       string            `json:"mourajah"`
	NextTasmii     string            `json:"nextTasmii"`
	NextMourajah   string            `json:"nextMourajah"`
	Notes          string            `json:"notes"`
	ZoomImageURL   string            `json:"zoomImageUrl" validate:"omitempty,url"`
	IsPostponed    bool              `json:"isPostponed"`
}

// SessionNumberResult is the outcome of a session ordinal calculation.
type SessionNumberResult struct {
	StudentID     int64             `json:"student_id"`
	Attendance    models.Attendance `json:"attendance"`
	SessionNumber int               `json:"session_number"`
	LessonsNumber int               `json:"lessons_number"`
	HistoryCount  int               `json:"history_count"`
}

// ReportExport is a rendered report download.
type ReportExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService numbers, stores, lists and exports session reports.
type ReportService struct {
	reports   reportStore
	profiles  profileReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	exporters map[string]export.Exporter
	now       func() time.Time
}

// NewReportService constructs the service.
func NewReportService(reports reportStore, profiles profileReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	exporters := map[string]export.Exporter{}
	for _, e := range []export.Exporter{export.NewCSVExporter(), export.NewPDFExporter("")} {
		exporters[e.Extension()] = e
	}
	return &ReportService{
		reports:   reports,
		profiles:  profiles,
		cache:     cache,
		validator: validate,
		logger:    logger,
		exporters: exporters,
		now:       time.Now,
	}
}

// UseExporter registers e under its extension, replacing any previous one.
func (s *ReportService) UseExporter(e export.Exporter) {
	s.exporters[e.Extension()] = e
}

// NextSessionNumber computes the ordinal the next report of the student
// would carry for the given attendance category. It has no side effects.
func (s *ReportService) NextSessionNumber(ctx context.Context, studentID int64, attendance models.Attendance) (*SessionNumberResult, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id must be a positive integer")
	}
	if attendance == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance is required")
	}
	if _, err := requireUser(ctx, s.profiles, studentID, "student"); err != nil {
		return nil, err
	}

	settings, err := studentSettings(ctx, s.profiles, studentID)
	if err != nil {
		return nil, err
	}
	history, err := s.reports.ListSessionHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load session history")
	}

	return &SessionNumberResult{
		StudentID:     studentID,
		Attendance:    attendance,
		SessionNumber: scheduling.NextSessionNumber(history, attendance, settings.LessonsNumber),
		LessonsNumber: settings.LessonsNumber,
		HistoryCount:  len(history),
	}, nil
}

// CreateReport numbers and persists a report, then drops the cached views
// that depend on it.
func (s *ReportService) CreateReport(ctx context.Context, req CreateReportRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if !req.Attendance.Known() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance category")
	}
	clock := "00:00:00"
	if req.Time != "" {
		normalized, err := timeofday.Normalize(req.Time)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report time")
		}
		clock = normalized
	}

	if _, err := requireUser(ctx, s.profiles, req.StudentID, "student"); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.profiles, req.TeacherID, "teacher"); err != nil {
		return nil, err
	}

	next, err := s.NextSessionNumber(ctx, req.StudentID, req.Attendance)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		StudentID:      req.StudentID,
		TeacherID:      req.TeacherID,
		Date:           req.Date,
		Time:           clock,
		Attendance:     req.Attendance,
		SessionNumber:  next.SessionNumber,
		LessonDuration: req.LessonDuration,
		Evaluation:     req.Evaluation,
		Grade:          req.Grade,
		Tasmii:         req.Tasmii,
		Tahfiz:         req.Tahfiz,
		Mourajah:       req.Mourajah,
		NextTasmii:     req.NextTasmii,
		NextMourajah:   req.NextMourajah,
		Notes:          req.Notes,
		ZoomImageURL:   req.ZoomImageURL,
		IsPostponed:    req.IsPostponed,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, appErrors.Storage(err, "failed to create report")
	}

	s.logger.Info("report created",
		zap.Int64("report_id", report.ID),
		zap.Int64("student_id", report.StudentID),
		zap.Int("session_number", report.SessionNumber),
	)

	if err := s.cache.InvalidateStudent(ctx, report.StudentID); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Int64("student_id", report.StudentID), zap.Error(err))
	}
	if err := s.cache.InvalidateTeacher(ctx, report.TeacherID); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Int64("teacher_id", report.TeacherID), zap.Error(err))
	}
	return report, nil
}

// ListStudentReports returns a page of the student's reports, newest first.
func (s *ReportService) ListStudentReports(ctx context.Context, studentID int64, page, size int, opts ReadOptions) ([]models.Report, *models.Pagination, error) {
	if _, err := requireUser(ctx, s.profiles, studentID, "student"); err != nil {
		return nil, nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	type cachedPage struct {
		Reports    []models.Report    `json:"reports"`
		Pagination *models.Pagination `json:"pagination"`
	}
	key := StudentReportsKey(studentID, page, size)
	if !opts.BypassCache {
		var cached cachedPage
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached.Reports, cached.Pagination, nil
		}
	}

	reports, total, err := s.reports.List(ctx, models.ReportFilter{StudentID: studentID, Page: page, PageSize: size})
	if err != nil {
		return nil, nil, appErrors.Storage(err, "failed to list reports")
	}
	if reports == nil {
		reports = []models.Report{}
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}

	if !opts.BypassCache {
		_ = s.cache.Set(ctx, key, cachedPage{Reports: reports, Pagination: pagination}, 0)
	}
	return reports, pagination, nil
}

var reportExportHeaders = []string{"Session", "Date", "Time", "Attendance", "Teacher", "Minutes", "Grade", "Evaluation", "Tasmii", "Tahfiz", "Mourajah", "Notes"}

// ExportStudentReports renders every report of the student, newest first, in
// the requested format.
func (s *ReportService) ExportStudentReports(ctx context.Context, studentID int64, format string) (*ReportExport, error) {
	exporter, ok := s.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	student, err := requireUser(ctx, s.profiles, studentID, "student")
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to list reports")
	}

	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, map[string]string{
			"Session":    strconv.Itoa(r.SessionNumber),
			"Date":       r.Date,
			"Time":       r.Time,
			"Attendance": r.Attendance.Label(),
			"Teacher":    r.TeacherName,
			"Minutes":    strconv.Itoa(r.LessonDuration),
			"Grade":      strconv.Itoa(r.Grade),
			"Evaluation": r.Evaluation,
			"Tasmii":     r.Tasmii,
			"Tahfiz":     r.Tahfiz,
			"Mourajah":   r.Mourajah,
			"Notes":      r.Notes,
		})
	}

	body, err := exporter.Render(export.Dataset{
		Title:   fmt.Sprintf("Session reports: %s", student.DisplayName),
		Headers: reportExportHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report export")
	}

	s.logger.Debug("reports exported", zap.Int64("student_id", studentID), zap.String("format", exporter.Extension()), zap.Int("rows", len(rows)))
	return &ReportExport{
		Filename:    fmt.Sprintf("student-%d-reports-%s.%s", studentID, s.now().Format("20060102"), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}
