package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-schedule-api/internal/middleware"
	"github.com/noah-isme/tutoring-schedule-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-schedule-api/pkg/errors"
	"github.com/noah-isme/tutoring-schedule-api/pkg/response"
)

// pathID parses a positive numeric path parameter, writing a validation
// error when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, accepting both the
// snake_case and camelCase spellings.
func queryInt(c *gin.Context, fallback int, names ...string) (int, bool) {
	for _, name := range names {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer"))
			return 0, false
		}
		return value, true
	}
	return fallback, true
}

// readOptions honours the _t cache-busting query parameter.
func readOptions(c *gin.Context) service.ReadOptions {
	_, bypass := c.GetQuery("_t")
	middleware.SetCacheBypass(c, bypass)
	return service.ReadOptions{BypassCache: bypass}
}
