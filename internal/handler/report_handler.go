package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type reportService interface {
	NextSessionNumber(ctx context.Context, studentID int64, attendance models.Attendance) (*service.SessionNumberResult, error)
	CreateReport(ctx context.Context, req service.CreateReportRequest) (*models.Report, error)
	ListStudentReports(ctx context.Context, studentID int64, page, size int, opts service.ReadOptions) ([]models.Report, *models.Pagination, error)
	ExportStudentReports(ctx context.Context, studentID int64, format string) (*service.ReportExport, error)
}

// ReportHandler exposes session report endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// SessionNumber godoc
// @Summary Next session number
// @Description Computes the ordinal the next report would receive for an attendance category. Nothing is persisted.
// @Tags Reports
// @Produce json
// @Param id path int true "Student ID"
// @Param attendance query string true "Attendance category"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/session-number [get]
func (h *ReportHandler) SessionNumber(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attendance := strings.TrimSpace(c.Query("attendance"))
	result, err := h.reports.NextSessionNumber(c.Request.Context(), studentID, models.Attendance(attendance))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Create session report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.CreateReportRequest true "Report payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload"))
		return
	}
	report, err := h.reports.CreateReport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// ListByStudent godoc
// @Summary List student reports
// @Tags Reports
// @Produce json
// @Param id path int true "Student ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param _t query string false "Bypass the cache"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/reports [get]
func (h *ReportHandler) ListByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := queryInt(c, 1, "page")
	if !ok {
		return
	}
	size, ok := queryInt(c, 20, "page_size", "pageSize")
	if !ok {
		return
	}
	reports, pagination, err := h.reports.ListStudentReports(c.Request.Context(), studentID, page, size, readOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download a student's reports
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	file, err := h.reports.ExportStudentReports(c.Request.Context(), studentID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
