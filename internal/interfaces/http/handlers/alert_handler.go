package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
)

// AlertScheduler generates, delivers and summarizes tiered alerts.
type AlertScheduler interface {
	GeneratePendingAlerts(ctx context.Context) ([]*deadline.PendingAlert, error)
	CheckAndSendDueAlerts(ctx context.Context) ([]*deadline.AlertResult, error)
	GetAlertsSummary() *deadline.AlertsSummary
}

// AlertHandler serves the alert scheduler endpoints.  Generate and check are
// normally driven by the worker; the POST endpoints exist for manual
// triggering and operational recovery.
type AlertHandler struct {
	scheduler AlertScheduler
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(scheduler AlertScheduler) *AlertHandler {
	return &AlertHandler{scheduler: scheduler}
}

// GenerateAlertsResponse wraps the regenerated pending alert set.
type GenerateAlertsResponse struct {
	Alerts []*deadline.PendingAlert `json:"alerts"`
	Total  int                      `json:"total"`
}

// Generate handles POST /alerts/generate.
func (h *AlertHandler) Generate(c *gin.Context) {
	alerts, err := h.scheduler.GeneratePendingAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, GenerateAlertsResponse{Alerts: alerts, Total: len(alerts)})
}

// CheckAlertsResponse wraps the per-alert delivery results of one pass.
type CheckAlertsResponse struct {
	Results []*deadline.AlertResult `json:"results"`
	Sent    int                     `json:"sent"`
	Failed  int                     `json:"failed"`
}

// Check handles POST /alerts/check.
func (h *AlertHandler) Check(c *gin.Context) {
	results, err := h.scheduler.CheckAndSendDueAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := CheckAlertsResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}
	ok(c, resp)
}

// Summary handles GET /alerts/summary.
func (h *AlertHandler) Summary(c *gin.Context) {
	ok(c, h.scheduler.GetAlertsSummary())
}
