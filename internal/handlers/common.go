package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"practice-manager-server/internal/services"
	"practice-manager-server/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCollision):
		utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		utils.Conflict(c, err.Error())
	case services.IsValidation(err):
		utils.BadRequest(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected service error")
		utils.InternalServerError(c, err.Error())
	}
}

// dateQueryLayouts are accepted for date query parameters. The calendar
// frontend sends full timestamps, the list filters plain dates.
var dateQueryLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseDateQuery reads an optional date query parameter. The second return
// is false when the parameter is present but malformed, after a BadRequest
// response has already been written.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	for _, layout := range dateQueryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}

	utils.BadRequest(c, "Invalid "+name+" parameter: "+raw)
	return nil, false
}

// parseDateField parses a YYYY-MM-DD request field.
func parseDateField(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
