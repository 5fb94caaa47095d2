package deadline

import (
	"context"
	"sort"
	"time"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/domain/notification"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Alert levels
// ─────────────────────────────────────────────────────────────────────────────

// Level classifies how close a pending notification is to the end of its
// 72-hour acceptance window.
type Level string

const (
	LevelCritical Level = "CRITICAL" // 6 hours or less remaining
	LevelUrgent   Level = "URGENT"   // 24 hours or less remaining
	LevelWarning  Level = "WARNING"  // more than 24 hours remaining
)

// InclusionThresholdHours is the scan's surface threshold: notifications with
// more than this many hours remaining are not reported at all.
const InclusionThresholdHours = 48.0

// classifyLevel maps hours remaining to a Level; thresholds are inclusive and
// evaluated most-urgent first.
func classifyLevel(hoursRemaining float64) Level {
	switch {
	case hoursRemaining <= 6:
		return LevelCritical
	case hoursRemaining <= 24:
		return LevelUrgent
	default:
		return LevelWarning
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan output
// ─────────────────────────────────────────────────────────────────────────────

// PendingNotification is one unaccepted notification inside the scan window.
type PendingNotification struct {
	NotificationID  common.ID  `json:"notification_id"`
	LexnetID        string     `json:"lexnet_id"`
	Court           string     `json:"court"`
	ProcedureNumber string     `json:"procedure_number"`
	ReceivedDate    time.Time  `json:"received_date"`
	ExpiresAt       time.Time  `json:"expires_at"`
	HoursRemaining  float64    `json:"hours_remaining"`
	Level           Level      `json:"level"`
	AssignedLawyer  *common.ID `json:"assigned_lawyer_id,omitempty"`
}

// ThreeDaySummary buckets the scan result by level.  Each bucket is sorted
// ascending by hours remaining, most urgent first.
type ThreeDaySummary struct {
	Critical       []*PendingNotification `json:"critical"`
	Urgent         []*PendingNotification `json:"urgent"`
	Warning        []*PendingNotification `json:"warning"`
	TotalPending   int                    `json:"total_pending"`
	NextExpiration *time.Time             `json:"next_expiration,omitempty"`
}

// threeDayScanEvent is the payload published to TopicThreeDayScan.
type threeDayScanEvent struct {
	ScannedAt      time.Time  `json:"scanned_at"`
	Critical       int        `json:"critical"`
	Urgent         int        `json:"urgent"`
	Warning        int        `json:"warning"`
	TotalPending   int        `json:"total_pending"`
	NextExpiration *time.Time `json:"next_expiration,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Monitor
// ─────────────────────────────────────────────────────────────────────────────

// Monitor implements the three-day acceptance rule scan.  Notifications with
// a non-null DownloadedDate are never reported.
type Monitor struct {
	notifications notification.Repository
	audits        audit.Repository
	events        EventPublisher
	clock         Clock
	log           logging.Logger
}

// NewMonitor wires a Monitor.  events may be nil when no broker is
// configured.
func NewMonitor(notifications notification.Repository, audits audit.Repository, events EventPublisher, clock Clock, log logging.Logger) *Monitor {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Monitor{
		notifications: notifications,
		audits:        audits,
		events:        normalizePublisher(events),
		clock:         clock,
		log:           log.Named("threeday"),
	}
}

// CalculateHoursRemaining returns the hours left in the 72-hour window for a
// notification received at receivedDate; it never returns a negative value.
func (m *Monitor) CalculateHoursRemaining(receivedDate time.Time) float64 {
	remaining := receivedDate.Add(notification.AcceptanceWindow).Sub(m.clock.Now()).Hours()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CheckThreeDayRule scans unaccepted notifications, buckets them by level,
// writes one audit entry, and publishes a scan event.  Only items with 48
// hours or less remaining are surfaced.
func (m *Monitor) CheckThreeDayRule(ctx context.Context, officeID *string) (*ThreeDaySummary, error) {
	now := m.clock.Now()

	// Items enter the scan once 48h or less remain, i.e. received at least
	// 24h ago.
	receivedBefore := now.Add(-(notification.AcceptanceWindow - time.Duration(InclusionThresholdHours)*time.Hour))

	pending, err := m.notifications.FindPendingAcceptance(ctx, officeID, receivedBefore)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to load pending notifications")
	}

	summary := &ThreeDaySummary{}
	for _, n := range pending {
		if n.IsDownloaded() {
			continue
		}
		hours := n.HoursRemaining(now)
		if hours > InclusionThresholdHours {
			continue
		}

		item := &PendingNotification{
			NotificationID:  n.ID,
			LexnetID:        n.LexnetID,
			Court:           n.Court,
			ProcedureNumber: n.ProcedureNumber,
			ReceivedDate:    n.ReceivedDate,
			ExpiresAt:       n.AcceptanceDeadline(),
			HoursRemaining:  hours,
			Level:           classifyLevel(hours),
			AssignedLawyer:  n.AssignedLawyerID,
		}

		switch item.Level {
		case LevelCritical:
			summary.Critical = append(summary.Critical, item)
		case LevelUrgent:
			summary.Urgent = append(summary.Urgent, item)
		default:
			summary.Warning = append(summary.Warning, item)
		}
		summary.TotalPending++

		if summary.NextExpiration == nil || item.ExpiresAt.Before(*summary.NextExpiration) {
			exp := item.ExpiresAt
			summary.NextExpiration = &exp
		}
	}

	sortByHours(summary.Critical)
	sortByHours(summary.Urgent)
	sortByHours(summary.Warning)

	if err := m.writeScanAudit(ctx, now, summary); err != nil {
		return nil, err
	}
	m.publishScanEvent(ctx, now, summary)

	m.log.Info("three-day rule scan complete",
		logging.Int("critical", len(summary.Critical)),
		logging.Int("urgent", len(summary.Urgent)),
		logging.Int("warning", len(summary.Warning)),
		logging.Int("total_pending", summary.TotalPending))
	return summary, nil
}

// GetExpiredNotifications returns notifications whose window has fully
// elapsed without acceptance.  They report zero hours remaining and a forced
// CRITICAL level: the breach has already occurred.
func (m *Monitor) GetExpiredNotifications(ctx context.Context) ([]*PendingNotification, error) {
	now := m.clock.Now()

	expired, err := m.notifications.FindExpired(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDBQueryError, "failed to load expired notifications")
	}

	out := make([]*PendingNotification, 0, len(expired))
	for _, n := range expired {
		if n.IsDownloaded() || !n.IsExpired(now) {
			continue
		}
		out = append(out, &PendingNotification{
			NotificationID:  n.ID,
			LexnetID:        n.LexnetID,
			Court:           n.Court,
			ProcedureNumber: n.ProcedureNumber,
			ReceivedDate:    n.ReceivedDate,
			ExpiresAt:       n.AcceptanceDeadline(),
			HoursRemaining:  0,
			Level:           LevelCritical,
			AssignedLawyer:  n.AssignedLawyerID,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	return out, nil
}

// writeScanAudit records one structured audit entry per scan.  Scans are
// system-triggered, so the actor is nil.
func (m *Monitor) writeScanAudit(ctx context.Context, now time.Time, s *ThreeDaySummary) error {
	metadata := map[string]interface{}{
		"critical_count": len(s.Critical),
		"urgent_count":   len(s.Urgent),
		"warning_count":  len(s.Warning),
		"total_pending":  s.TotalPending,
	}
	if s.NextExpiration != nil {
		metadata["next_expiration"] = s.NextExpiration.UTC().Format(time.RFC3339)
	}

	entry := audit.NewEntry(nil, audit.ActionThreeDayScan, audit.TargetTypeSystem, "", metadata, now)
	if err := m.audits.Insert(ctx, entry); err != nil {
		return errors.Wrap(err, errors.CodeDBQueryError, "failed to write scan audit entry")
	}
	return nil
}

// publishScanEvent emits the scan summary; a broker failure never fails the
// scan itself.
func (m *Monitor) publishScanEvent(ctx context.Context, now time.Time, s *ThreeDaySummary) {
	if m.events == nil {
		return
	}
	ev := threeDayScanEvent{
		ScannedAt:      now.UTC(),
		Critical:       len(s.Critical),
		Urgent:         len(s.Urgent),
		Warning:        len(s.Warning),
		TotalPending:   s.TotalPending,
		NextExpiration: s.NextExpiration,
	}
	if err := m.events.Publish(ctx, TopicThreeDayScan, now.UTC().Format(time.RFC3339), ev); err != nil {
		m.log.Warn("failed to publish scan event", logging.Err(err))
	}
}

func sortByHours(items []*PendingNotification) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].HoursRemaining < items[j].HoursRemaining
	})
}
