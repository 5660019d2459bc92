package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type postponedEventService interface {
	Create(ctx context.Context, req service.CreatePostponedEventRequest) (*models.PostponedEvent, error)
}

// PostponedEventHandler books one-off makeup lessons.
type PostponedEventHandler struct {
	service postponedEventService
}

// NewPostponedEventHandler constructs the handler.
func NewPostponedEventHandler(svc postponedEventService) *PostponedEventHandler {
	return &PostponedEventHandler{service: svc}
}

// Create godoc
// @Summary Book a postponed lesson
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreatePostponedEventRequest true "Postponed event"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /postponed-events [post]
func (h *PostponedEventHandler) Create(c *gin.Context) {
	var req service.CreatePostponedEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid postponed event payload"))
		return
	}
	event, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}
