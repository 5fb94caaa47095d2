// Package deadline implements the deadline computation and alert-tiering
// engine: business-day arithmetic, the three-day acceptance rule monitor, the
// hearing task generator, and the alert scheduler.
package deadline

import (
	"context"
	"reflect"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Clock
// ─────────────────────────────────────────────────────────────────────────────

// Clock supplies the current time.  Every threshold computation in this
// package reads time through a Clock so the engine stays deterministic under
// test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// ─────────────────────────────────────────────────────────────────────────────
// External collaborator ports
// ─────────────────────────────────────────────────────────────────────────────

// Importance values accepted by the mail collaborator.
const (
	ImportanceHigh   = "high"
	ImportanceNormal = "normal"
)

// Message is the rendered payload handed to the mail collaborator.
type Message struct {
	Subject        string `json:"subject"`
	HTMLBody       string `json:"html_body"`
	TextBody       string `json:"text_body,omitempty"`
	RecipientEmail string `json:"recipient_email"`
	Importance     string `json:"importance"`
}

// MailSender delivers one rendered alert message.  Implementations own any
// retry policy; the engine never retries a send.
type MailSender interface {
	Send(ctx context.Context, msg *Message) error
}

// AlertStateStore records which alert keys have already been delivered so
// that overlapping scheduler ticks stay idempotent.  Keys follow the
// "{notificationID}-{tier}" dedup convention.
type AlertStateStore interface {
	// IsSent reports whether the key was already marked as delivered.
	IsSent(ctx context.Context, key string) (bool, error)

	// MarkSent records delivery of the key for at least ttl.
	MarkSent(ctx context.Context, key string, ttl time.Duration) error
}

// EventPublisher emits domain events for downstream consumers.  Publishing is
// best-effort from the engine's point of view; implementations surface errors
// and callers decide whether they matter.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload interface{}) error
}

// Event topics emitted by this package.
const (
	TopicThreeDayScan = "lexwatch.threeday.scan"
	TopicAlertSent    = "lexwatch.alerts.sent"
)

// normalizePublisher collapses a typed-nil publisher to a plain nil interface.
// Callers holding a concrete publisher pointer can hand the constructors a nil
// pointer wrapped in the interface, which would slip past the == nil guards on
// the publish paths.
func normalizePublisher(p EventPublisher) EventPublisher {
	if p == nil {
		return nil
	}
	if v := reflect.ValueOf(p); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return p
}
