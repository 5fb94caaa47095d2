package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// defaultDeadlineWindowDays is the lookahead applied when the caller does not
// request one.
const defaultDeadlineWindowDays = 7

// DeadlineService lists upcoming deadlines enriched with lawyer contact data.
type DeadlineService interface {
	GetUpcomingDeadlines(ctx context.Context, lawyerID *common.ID, withinDays int) ([]*deadline.UpcomingDeadline, error)
}

// AcceptanceMonitor runs the three-day acceptance rule scan.
type AcceptanceMonitor interface {
	CheckThreeDayRule(ctx context.Context, officeID *string) (*deadline.ThreeDaySummary, error)
	GetExpiredNotifications(ctx context.Context) ([]*deadline.PendingNotification, error)
}

// DeadlineHandler serves deadline listing and acceptance-window endpoints.
type DeadlineHandler struct {
	deadlines DeadlineService
	monitor   AcceptanceMonitor
}

// NewDeadlineHandler creates a DeadlineHandler.
func NewDeadlineHandler(deadlines DeadlineService, monitor AcceptanceMonitor) *DeadlineHandler {
	return &DeadlineHandler{deadlines: deadlines, monitor: monitor}
}

// UpcomingDeadlinesResponse wraps the deadline list.
type UpcomingDeadlinesResponse struct {
	Deadlines []*deadline.UpcomingDeadline `json:"deadlines"`
	Total     int                          `json:"total"`
}

// ListUpcoming handles GET /deadlines.
// Query parameters: lawyer_id (optional), within_days (optional, default 7).
func (h *DeadlineHandler) ListUpcoming(c *gin.Context) {
	withinDays, err := queryInt(c, "within_days", defaultDeadlineWindowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	var lawyerID *common.ID
	if raw := c.Query("lawyer_id"); raw != "" {
		id := common.ID(raw)
		lawyerID = &id
	}

	deadlines, err := h.deadlines.GetUpcomingDeadlines(c.Request.Context(), lawyerID, withinDays)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, UpcomingDeadlinesResponse{Deadlines: deadlines, Total: len(deadlines)})
}

// AcceptanceSummary handles GET /notifications/acceptance.
// Query parameters: office_id (optional).
func (h *DeadlineHandler) AcceptanceSummary(c *gin.Context) {
	var officeID *string
	if raw := c.Query("office_id"); raw != "" {
		officeID = &raw
	}

	summary, err := h.monitor.CheckThreeDayRule(c.Request.Context(), officeID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, summary)
}

// ExpiredNotificationsResponse wraps the expired-notification list.
type ExpiredNotificationsResponse struct {
	Notifications []*deadline.PendingNotification `json:"notifications"`
	Total         int                             `json:"total"`
}

// ListExpired handles GET /notifications/expired.
func (h *DeadlineHandler) ListExpired(c *gin.Context) {
	if h.monitor == nil {
		respondError(c, errors.New(errors.CodeNotImplemented, "acceptance monitoring is not configured"))
		return
	}

	expired, err := h.monitor.GetExpiredNotifications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, ExpiredNotificationsResponse{Notifications: expired, Total: len(expired)})
}
