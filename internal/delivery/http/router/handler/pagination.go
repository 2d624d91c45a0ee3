package handler

import (
	"strconv"

	"plume/config"

	"github.com/labstack/echo/v4"
)

// parsePagination reads limit/offset query parameters, clamping the limit to
// the configured page size bounds. Bad values fall back to the defaults.
func parsePagination(c echo.Context, cfg *config.Config) (limit, offset int) {
	limit = cfg.Content.DefaultPageSize

	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > cfg.Content.MaxPageSize {
		limit = cfg.Content.MaxPageSize
	}

	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
