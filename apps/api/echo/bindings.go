package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/announcement"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02"}

// parseTimeParam accepts RFC3339 or date-only values; a bare date used as an
// upper bound covers the whole day.
func parseTimeParam(val string, endOfDay bool) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, val)
		if err != nil {
			lastErr = err
			continue
		}
		if endOfDay && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, lastErr
}

// bindAnnouncementFilter parses the announcement listing query params. The
// pinned param is tri-state: absent means no predicate.
func bindAnnouncementFilter(ctx echo.Context) (announcement.QueryFilter, error) {
	var filter announcement.QueryFilter
	filter.Course = ctx.QueryParam("course")

	if val := ctx.QueryParam("pinned"); val != "" {
		pinned, err := strconv.ParseBool(val)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "pinned", Error: "must be a boolean"})
		}
		filter.Pinned = &pinned
	}
	if val := ctx.QueryParam("from"); val != "" {
		from, err := parseTimeParam(val, false)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "from", Error: "must be a RFC3339 or YYYY-MM-DD timestamp"})
		}
		filter.From = from
	}
	if val := ctx.QueryParam("to"); val != "" {
		to, err := parseTimeParam(val, true)
		if err != nil {
			return filter, core.NewValidationError(nil, core.FieldError{Field: "to", Error: "must be a RFC3339 or YYYY-MM-DD timestamp"})
		}
		filter.To = to
	}
	return filter, nil
}
