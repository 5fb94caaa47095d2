package deadline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Alert model
// ─────────────────────────────────────────────────────────────────────────────

// Tier identifies which of the three alert instants an alert represents.
type Tier string

const (
	Tier48h   Tier = "48h"
	Tier24h   Tier = "24h"
	TierGrace Tier = "grace"
)

// AlertStatus is the lifecycle of a generated alert within one scheduling
// window.
type AlertStatus string

const (
	AlertPending AlertStatus = "pending"
	AlertSent    AlertStatus = "sent"
	AlertFailed  AlertStatus = "failed"
)

// alertHorizonDays is the deadline window alerts are generated from.
const alertHorizonDays = 7

// sentMarkTTL keeps dedup marks alive well past the scheduling window.
const sentMarkTTL = 7 * 24 * time.Hour

// PendingAlert is one scheduled notification event.  Alerts are a transient
// projection regenerated on every pass; the composite ID
// "{notificationID}-{tier}" is the deduplication key.
type PendingAlert struct {
	ID             string    `json:"id"`
	NotificationID common.ID `json:"notification_id"`
	TaskID         common.ID `json:"task_id"`
	Tier           Tier      `json:"tier"`

	DeadlineDate   time.Time  `json:"deadline_date"`
	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	// ScheduledFor is the instant the alert becomes due.
	ScheduledFor        time.Time `json:"scheduled_for"`
	HoursBeforeDeadline float64   `json:"hours_before_deadline"`

	Status AlertStatus `json:"status"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	Title           string `json:"title"`
	Court           string `json:"court"`
	ProcedureNumber string `json:"procedure_number"`
}

// AlertResult is the per-alert outcome of one send pass.  Failures are data,
// not errors: one alert's failure never aborts the batch.
type AlertResult struct {
	AlertID string     `json:"alert_id"`
	Success bool       `json:"success"`
	Message string     `json:"message"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

// AlertsSummary counts the generated set against day boundaries of now.
type AlertsSummary struct {
	DueWithin24h      int `json:"due_within_24h"`
	ScheduledToday    int `json:"scheduled_today"`
	ScheduledTomorrow int `json:"scheduled_tomorrow"`
	TotalPending      int `json:"total_pending"`
}

// alertSentEvent is the payload published to TopicAlertSent.
type alertSentEvent struct {
	AlertID        string    `json:"alert_id"`
	NotificationID string    `json:"notification_id"`
	Tier           string    `json:"tier"`
	Recipient      string    `json:"recipient"`
	SentAt         time.Time `json:"sent_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Scheduler
// ─────────────────────────────────────────────────────────────────────────────

// Scheduler turns the upcoming-deadline projection into tiered alerts and
// delivers the due ones.  Generation and sending are decoupled: a failure in
// one phase never corrupts the other's state.
type Scheduler struct {
	calc   *Calculator
	mail   MailSender
	state  AlertStateStore
	events EventPublisher
	clock  Clock
	loc    *time.Location
	hour   int
	log    logging.Logger

	mu      sync.Mutex
	pending map[string]*PendingAlert
}

// NewScheduler wires a Scheduler.  hour is the local hour alerts are
// scheduled at (09:00 by convention); loc defaults to UTC, events may be nil.
func NewScheduler(calc *Calculator, mail MailSender, state AlertStateStore, events EventPublisher, clock Clock, loc *time.Location, hour int, log logging.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Scheduler{
		calc:    calc,
		mail:    mail,
		state:   state,
		events:  normalizePublisher(events),
		clock:   clock,
		loc:     loc,
		hour:    hour,
		log:     log.Named("alerts"),
		pending: map[string]*PendingAlert{},
	}
}

// AlertKey returns the dedup key for a notification/tier pair.
func AlertKey(notificationID common.ID, tier Tier) string {
	return fmt.Sprintf("%s-%s", notificationID, tier)
}

// GeneratePendingAlerts rebuilds the alert set from the 7-day deadline
// horizon.  For each deadline with a resolvable lawyer email it emits at most
// one alert, gated by the exact business-days-remaining value; alerts whose
// scheduled instant already passed are dropped, never backdated-sent.
// Re-running against an unchanged snapshot yields a set-equal result.
func (s *Scheduler) GeneratePendingAlerts(ctx context.Context) ([]*PendingAlert, error) {
	deadlines, err := s.calc.GetUpcomingDeadlines(ctx, nil, alertHorizonDays)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	generated := map[string]*PendingAlert{}
	for _, d := range deadlines {
		if d.LawyerEmail == "" {
			continue
		}

		var (
			tier         Tier
			scheduledFor time.Time
		)
		switch d.BusinessDaysRemaining {
		case 2:
			tier = Tier48h
			scheduledFor = scheduledAtHour(d.DueDate.AddDate(0, 0, -2), s.hour, s.loc)
		case 1:
			tier = Tier24h
			scheduledFor = scheduledAtHour(d.DueDate.AddDate(0, 0, -1), s.hour, s.loc)
		case 0:
			tier = TierGrace
			graceDate := d.DueDate
			if d.GracePeriodEnd != nil {
				graceDate = *d.GracePeriodEnd
			}
			scheduledFor = scheduledAtHour(graceDate, s.hour, s.loc)
		default:
			continue
		}

		if scheduledFor.Before(now) {
			continue
		}

		key := AlertKey(d.NotificationID, tier)
		if _, dup := generated[key]; dup {
			continue
		}
		generated[key] = &PendingAlert{
			ID:                  key,
			NotificationID:      d.NotificationID,
			TaskID:              d.TaskID,
			Tier:                tier,
			DeadlineDate:        d.DueDate,
			GracePeriodEnd:      d.GracePeriodEnd,
			ScheduledFor:        scheduledFor,
			HoursBeforeDeadline: d.DueDate.Sub(now).Hours(),
			Status:              AlertPending,
			RecipientName:       d.LawyerName,
			RecipientEmail:      d.LawyerEmail,
			Title:               d.Title,
			Court:               d.Court,
			ProcedureNumber:     d.ProcedureNumber,
		}
	}

	s.mu.Lock()
	s.pending = generated
	s.mu.Unlock()

	out := make([]*PendingAlert, 0, len(generated))
	for _, a := range generated {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledFor.Equal(out[j].ScheduledFor) {
			return out[i].ScheduledFor.Before(out[j].ScheduledFor)
		}
		return out[i].ID < out[j].ID
	})

	s.log.Debug("generated pending alerts", logging.Int("count", len(out)))
	return out, nil
}

// CheckAndSendDueAlerts delivers every generated alert that is pending and
// due (ScheduledFor <= now), returning one result per attempt.  The sent-mark
// store keeps overlapping ticks from re-delivering an alert; a store read
// failure is logged and delivery proceeds, preferring a duplicate over a
// missed statutory warning.
func (s *Scheduler) CheckAndSendDueAlerts(ctx context.Context) ([]*AlertResult, error) {
	now := s.clock.Now()

	s.mu.Lock()
	due := make([]*PendingAlert, 0, len(s.pending))
	for _, a := range s.pending {
		if a.Status == AlertPending && !a.ScheduledFor.After(now) {
			due = append(due, a)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].ScheduledFor.Equal(due[j].ScheduledFor) {
			return due[i].ScheduledFor.Before(due[j].ScheduledFor)
		}
		return due[i].ID < due[j].ID
	})

	results := make([]*AlertResult, 0, len(due))
	for _, a := range due {
		results = append(results, s.sendOne(ctx, a, now))
	}
	return results, nil
}

// sendOne attempts delivery of a single alert and records the outcome.
func (s *Scheduler) sendOne(ctx context.Context, a *PendingAlert, now time.Time) *AlertResult {
	if s.state != nil {
		sent, err := s.state.IsSent(ctx, a.ID)
		if err != nil {
			s.log.Warn("alert state lookup failed; proceeding with delivery",
				logging.String("alert_id", a.ID), logging.Err(err))
		} else if sent {
			s.markStatus(a.ID, AlertSent)
			return &AlertResult{AlertID: a.ID, Success: true, Message: "already sent"}
		}
	}

	content := GenerateAlertEmailContent(a)
	importance := ImportanceNormal
	if a.HoursBeforeDeadline <= 24 {
		importance = ImportanceHigh
	}

	err := s.mail.Send(ctx, &Message{
		Subject:        content.Subject,
		HTMLBody:       content.HTMLBody,
		TextBody:       content.TextBody,
		RecipientEmail: a.RecipientEmail,
		Importance:     importance,
	})
	if err != nil {
		s.markStatus(a.ID, AlertFailed)
		s.log.Warn("alert delivery failed",
			logging.String("alert_id", a.ID),
			logging.String("recipient", a.RecipientEmail),
			logging.Err(err))
		return &AlertResult{AlertID: a.ID, Success: false, Message: err.Error()}
	}

	s.markStatus(a.ID, AlertSent)
	if s.state != nil {
		if err := s.state.MarkSent(ctx, a.ID, sentMarkTTL); err != nil {
			s.log.Warn("failed to record sent mark", logging.String("alert_id", a.ID), logging.Err(err))
		}
	}
	s.publishSent(ctx, a, now)

	sentAt := now
	return &AlertResult{AlertID: a.ID, Success: true, Message: "sent", SentAt: &sentAt}
}

// GetAlertsSummary counts the current generated set by scheduling day
// boundaries relative to now.
func (s *Scheduler) GetAlertsSummary() *AlertsSummary {
	now := s.clock.Now().In(s.loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	dayAfterStart := todayStart.AddDate(0, 0, 2)

	summary := &AlertsSummary{}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.pending {
		if a.Status != AlertPending {
			continue
		}
		summary.TotalPending++
		if !a.ScheduledFor.After(now.Add(24 * time.Hour)) {
			summary.DueWithin24h++
		}
		sched := a.ScheduledFor.In(s.loc)
		switch {
		case !sched.Before(todayStart) && sched.Before(tomorrowStart):
			summary.ScheduledToday++
		case !sched.Before(tomorrowStart) && sched.Before(dayAfterStart):
			summary.ScheduledTomorrow++
		}
	}
	return summary
}

func (s *Scheduler) markStatus(id string, status AlertStatus) {
	s.mu.Lock()
	if a, ok := s.pending[id]; ok {
		a.Status = status
	}
	s.mu.Unlock()
}

func (s *Scheduler) publishSent(ctx context.Context, a *PendingAlert, now time.Time) {
	if s.events == nil {
		return
	}
	ev := alertSentEvent{
		AlertID:        a.ID,
		NotificationID: string(a.NotificationID),
		Tier:           string(a.Tier),
		Recipient:      a.RecipientEmail,
		SentAt:         now.UTC(),
	}
	if err := s.events.Publish(ctx, TopicAlertSent, a.ID, ev); err != nil {
		s.log.Warn("failed to publish alert-sent event", logging.Err(err))
	}
}
