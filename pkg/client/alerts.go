package client

import (
	"context"
	"time"
)

// AlertsClient accesses the alert scheduler endpoints.
type AlertsClient struct {
	client *Client
}

// PendingAlert is one scheduled alert.
type PendingAlert struct {
	ID             string `json:"id"`
	NotificationID string `json:"notification_id"`
	TaskID         string `json:"task_id"`
	Tier           string `json:"tier"`

	DeadlineDate   time.Time  `json:"deadline_date"`
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`
	ScheduledFor   time.Time  `json:"scheduled_for"`

	HoursBeforeDeadline float64 `json:"hours_before_deadline"`
	Status              string  `json:"status"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	Title           string `json:"title"`
	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
}

// GenerateAlertsResponse is the regenerated pending alert set.
type GenerateAlertsResponse struct {
	Alerts []PendingAlert `json:"alerts"`
	Total  int            `json:"total"`
}

// Generate rebuilds the pending alert set from current deadlines.
func (a *AlertsClient) Generate(ctx context.Context) (*GenerateAlertsResponse, error) {
	var resp GenerateAlertsResponse
	if err := a.client.post(ctx, "/api/v1/alerts/generate", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AlertResult is the delivery outcome for one alert.
type AlertResult struct {
	AlertID string     `json:"alert_id"`
	Success bool       `json:"success"`
	Message string     `json:"message"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

// CheckAlertsResponse is the per-alert outcome of one delivery pass.
type CheckAlertsResponse struct {
	Results []AlertResult `json:"results"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
}

// Check delivers every alert whose scheduled time has arrived.
func (a *AlertsClient) Check(ctx context.Context) (*CheckAlertsResponse, error) {
	var resp CheckAlertsResponse
	if err := a.client.post(ctx, "/api/v1/alerts/check", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AlertsSummary aggregates the pending alert set.
type AlertsSummary struct {
	DueWithin24h      int `json:"due_within_24h"`
	ScheduledToday    int `json:"scheduled_today"`
	ScheduledTomorrow int `json:"scheduled_tomorrow"`
	TotalPending      int `json:"total_pending"`
}

// Summary returns counts over the current pending alert set.
func (a *AlertsClient) Summary(ctx context.Context) (*AlertsSummary, error) {
	var resp AlertsSummary
	if err := a.client.get(ctx, "/api/v1/alerts/summary", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
