package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// DeadlinesClient accesses the deadline and acceptance-window endpoints.
type DeadlinesClient struct {
	client *Client
}

// UpcomingDeadline is one pending task with its business-day distance and the
// resolved responsible lawyer.
type UpcomingDeadline struct {
	TaskID         string `json:"task_id"`
	NotificationID string `json:"notification_id"`

	Title    string `json:"title"`
	TaskType string `json:"task_type"`
	Priority string `json:"priority"`

	DueDate        time.Time  `json:"due_date"`
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	BusinessDaysRemaining int `json:"business_days_remaining"`

	LawyerID    string `json:"lawyer_id,omitempty"`
	LawyerName  string `json:"lawyer_name,omitempty"`
	LawyerEmail string `json:"lawyer_email,omitempty"`

	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
}

// UpcomingDeadlinesResponse is the deadline listing payload.
type UpcomingDeadlinesResponse struct {
	Deadlines []UpcomingDeadline `json:"deadlines"`
	Total     int                `json:"total"`
}

// ListDeadlinesOptions filters the deadline listing.
type ListDeadlinesOptions struct {
	// LawyerID restricts the listing to one lawyer when non-empty.
	LawyerID string

	// WithinDays is the calendar-day lookahead; the server default applies
	// when zero.
	WithinDays int
}

// ListUpcoming lists pending deadlines inside the lookahead window.
func (d *DeadlinesClient) ListUpcoming(ctx context.Context, opts ListDeadlinesOptions) (*UpcomingDeadlinesResponse, error) {
	q := url.Values{}
	if opts.LawyerID != "" {
		q.Set("lawyer_id", opts.LawyerID)
	}
	if opts.WithinDays > 0 {
		q.Set("within_days", strconv.Itoa(opts.WithinDays))
	}

	path := "/api/v1/deadlines"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp UpcomingDeadlinesResponse
	if err := d.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PendingNotification is one unaccepted notification inside its 72-hour
// acceptance window.
type PendingNotification struct {
	NotificationID  string    `json:"notification_id"`
	LexnetID        string    `json:"lexnet_id"`
	Court           string    `json:"court"`
	ProcedureNumber string    `json:"procedure_number"`
	ReceivedDate    time.Time `json:"received_date"`
	ExpiresAt       time.Time `json:"expires_at"`
	HoursRemaining  float64   `json:"hours_remaining"`
	Level           string    `json:"level"`
	AssignedLawyer  string    `json:"assigned_lawyer_id,omitempty"`
}

// ThreeDaySummary buckets pending notifications by urgency level.
type ThreeDaySummary struct {
	Critical       []PendingNotification `json:"critical"`
	Urgent         []PendingNotification `json:"urgent"`
	Warning        []PendingNotification `json:"warning"`
	TotalPending   int                   `json:"total_pending"`
	NextExpiration *time.Time            `json:"next_expiration,omitempty"`
}

// AcceptanceSummary runs the three-day acceptance rule scan, optionally
// scoped to one office.
func (d *DeadlinesClient) AcceptanceSummary(ctx context.Context, officeID string) (*ThreeDaySummary, error) {
	path := "/api/v1/notifications/acceptance"
	if officeID != "" {
		path += "?office_id=" + url.QueryEscape(officeID)
	}

	var resp ThreeDaySummary
	if err := d.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExpiredNotificationsResponse is the expired-notification listing payload.
type ExpiredNotificationsResponse struct {
	Notifications []PendingNotification `json:"notifications"`
	Total         int                   `json:"total"`
}

// Expired lists notifications whose acceptance window has already closed.
func (d *DeadlinesClient) Expired(ctx context.Context) (*ExpiredNotificationsResponse, error) {
	var resp ExpiredNotificationsResponse
	if err := d.client.get(ctx, "/api/v1/notifications/expired", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
