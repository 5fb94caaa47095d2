// Package notification defines the court-notification entity and the business
// rules of the three-day acceptance window.
package notification

import (
	"time"

	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// AcceptanceWindow is the statutory period within which a received
// notification must be accepted before it is deemed legally accepted.
const AcceptanceWindow = 72 * time.Hour

// ─────────────────────────────────────────────────────────────────────────────
// Status enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Status reflects the processing state of a notification.
type Status string

const (
	// StatusPending means the notification has been received over LexNET but
	// not yet accepted by a human or agent.
	StatusPending Status = "pending"

	// StatusDownloaded means the notification has been accepted; it is
	// permanently excluded from three-day-rule monitoring.
	StatusDownloaded Status = "downloaded"

	// StatusArchived means the notification has been processed and filed.
	StatusArchived Status = "archived"
)

// Priority is the routing priority derived at ingestion time.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ─────────────────────────────────────────────────────────────────────────────
// Notification entity
// ─────────────────────────────────────────────────────────────────────────────

// Notification represents one court filing received through the LexNET
// channel.  ReceivedDate is immutable after ingestion; DownloadedDate is null
// until the filing is accepted.
type Notification struct {
	// ID uniquely identifies this notification.
	ID common.ID `json:"id"`

	// LexnetID is the external identifier assigned by the LexNET channel.
	LexnetID string `json:"lexnet_id"`

	// Court is the issuing court, copied verbatim from the filing.
	Court string `json:"court"`

	// ProcedureNumber identifies the judicial procedure the filing belongs to.
	ProcedureNumber string `json:"procedure_number"`

	// Priority is derived at ingestion and not recomputed here.
	Priority Priority `json:"priority"`

	// Status reflects the acceptance lifecycle.
	Status Status `json:"status"`

	// ReceivedDate is the instant the filing entered the channel.  The
	// 72-hour acceptance clock runs from this value.
	ReceivedDate time.Time `json:"received_date"`

	// DownloadedDate is set exactly once, when the filing is accepted.
	DownloadedDate *time.Time `json:"downloaded_date,omitempty"`

	// AssignedLawyerID references the lawyer responsible for the filing.
	// It may be nil when the filing has not yet been triaged.
	AssignedLawyerID *common.ID `json:"assigned_lawyer_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNotification creates a Notification with validation.
//
// Business rules:
//   - LexnetID must not be empty
//   - ReceivedDate must not be zero
func NewNotification(lexnetID, court, procedureNumber string, receivedDate time.Time) (*Notification, error) {
	if lexnetID == "" {
		return nil, errors.InvalidParam("lexnet_id must not be empty")
	}
	if receivedDate.IsZero() {
		return nil, errors.InvalidParam("received_date must not be zero")
	}

	now := time.Now().UTC()
	return &Notification{
		ID:              common.NewID(),
		LexnetID:        lexnetID,
		Court:           court,
		ProcedureNumber: procedureNumber,
		Priority:        PriorityMedium,
		Status:          StatusPending,
		ReceivedDate:    receivedDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Query methods
// ─────────────────────────────────────────────────────────────────────────────

// IsDownloaded reports whether the notification has been accepted.
func (n *Notification) IsDownloaded() bool {
	return n.DownloadedDate != nil
}

// AcceptanceDeadline returns the instant the 72-hour window expires.
func (n *Notification) AcceptanceDeadline() time.Time {
	return n.ReceivedDate.Add(AcceptanceWindow)
}

// HoursRemaining returns the whole and fractional hours left in the
// acceptance window as of now.  It never returns a negative value: an
// expired window reports zero.
func (n *Notification) HoursRemaining(now time.Time) float64 {
	remaining := n.AcceptanceDeadline().Sub(now).Hours()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the acceptance window has fully elapsed.
func (n *Notification) IsExpired(now time.Time) bool {
	return now.Sub(n.ReceivedDate) >= AcceptanceWindow
}

// ─────────────────────────────────────────────────────────────────────────────
// Command methods
// ─────────────────────────────────────────────────────────────────────────────

// MarkDownloaded records acceptance of the notification.  Accepting twice is
// a state violation: DownloadedDate is set exactly once.
func (n *Notification) MarkDownloaded(at time.Time) error {
	if n.DownloadedDate != nil {
		return errors.New(errors.ErrCodeNotificationDownloaded, "notification already downloaded").
			WithDetail("lexnet_id=" + n.LexnetID)
	}
	n.DownloadedDate = &at
	n.Status = StatusDownloaded
	n.UpdatedAt = at
	return nil
}

// Assign sets the responsible lawyer.
func (n *Notification) Assign(lawyerID common.ID) {
	n.AssignedLawyerID = &lawyerID
	n.UpdatedAt = time.Now().UTC()
}
