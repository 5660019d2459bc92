package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

type cacheFlusher interface {
	Flush(ctx context.Context) error
}

// CacheHandler exposes cache administration.
type CacheHandler struct {
	cache  cacheFlusher
	logger *zap.Logger
}

// NewCacheHandler constructs the handler.
func NewCacheHandler(cache cacheFlusher, logger *zap.Logger) *CacheHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheHandler{cache: cache, logger: logger}
}

// Clear godoc
// @Summary Drop every cached schedule, report page and free slot result
// @Tags Cache
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /cache/clear [post]
func (h *CacheHandler) Clear(c *gin.Context) {
	if err := h.cache.Flush(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	var actor int64
	if claims := middleware.ClaimsFrom(c); claims != nil {
		actor = claims.UserID
	}
	h.logger.Info("cache cleared", zap.Int64("actor_id", actor))
	response.JSON(c, http.StatusOK, gin.H{"cleared": true}, nil)
}
