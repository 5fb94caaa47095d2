// Package handlers contains the gin HTTP handlers for the REST API.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexwatch/lexwatch/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status and writes the
// standard error body.  Server-side failures are masked with the code's
// default message so internals never leak to callers.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = errors.DefaultMessageForCode(code)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    code.String(),
		Message: message,
	})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent.  A present but malformed value is an error.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParam(name + " must be an integer")
	}
	return v, nil
}

// dateLayouts accepted for date fields in requests.  Calendar dates come
// first; full timestamps are accepted for callers that send them.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate parses a request date in one of the accepted layouts.
func parseDate(field, raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.InvalidParam(field + " must be a date (2006-01-02) or RFC 3339 timestamp")
}

// ok writes a 200 response with the given payload.
func ok(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}
