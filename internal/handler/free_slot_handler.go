package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type freeSlotService interface {
	ResolveTeacherFreeSlots(ctx context.Context, teacherID int64, lessonDuration int, opts service.ReadOptions) (*models.FreeSlotResult, error)
	ResolveStudentFreeSlots(ctx context.Context, studentID int64, opts service.ReadOptions) (*models.FreeSlotResult, error)
}

// FreeSlotHandler exposes teacher availability.
type FreeSlotHandler struct {
	service freeSlotService
}

// NewFreeSlotHandler constructs the free slot handler.
func NewFreeSlotHandler(svc freeSlotService) *FreeSlotHandler {
	return &FreeSlotHandler{service: svc}
}

// TeacherFreeSlots godoc
// @Summary Teacher free slot parts
// @Description Splits the teacher's weekly free windows around active postponed lessons.
// @Tags FreeSlots
// @Produce json
// @Param id path int true "Teacher ID"
// @Param lesson_duration query int false "Minimum usable length in minutes"
// @Param _t query string false "Bypass the cache"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/free-slots [get]
func (h *FreeSlotHandler) TeacherFreeSlots(c *gin.Context) {
	teacherID, ok := pathID(c, "id")
	if !ok {
		return
	}
	duration, ok := queryInt(c, 0, "lesson_duration", "lessonDuration")
	if !ok {
		return
	}
	result, err := h.service.ResolveTeacherFreeSlots(c.Request.Context(), teacherID, duration, readOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// StudentFreeSlots godoc
// @Summary Free slots of the student's teacher
// @Tags FreeSlots
// @Produce json
// @Param id path int true "Student ID"
// @Param _t query string false "Bypass the cache"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/free-slots [get]
func (h *FreeSlotHandler) StudentFreeSlots(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.ResolveStudentFreeSlots(c.Request.Context(), studentID, readOptions(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}
