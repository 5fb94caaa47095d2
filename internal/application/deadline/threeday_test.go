package deadline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexwatch/lexwatch/internal/domain/audit"
	"github.com/lexwatch/lexwatch/internal/domain/notification"
	"github.com/lexwatch/lexwatch/pkg/errors"
	"github.com/lexwatch/lexwatch/pkg/types/common"
)

// receivedAgo builds a pending notification received the given duration before
// now.
func receivedAgo(id string, now time.Time, ago time.Duration) *notification.Notification {
	return &notification.Notification{
		ID:           common.ID(id),
		LexnetID:     "LX-" + id,
		Court:        "Juzgado de Primera Instancia nº 3 de Valencia",
		Status:       notification.StatusPending,
		ReceivedDate: now.Add(-ago),
	}
}

func TestClassifyLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours float64
		want  Level
	}{
		{0, LevelCritical},
		{6, LevelCritical},
		{6.01, LevelUrgent},
		{24, LevelUrgent},
		{24.01, LevelWarning},
		{48, LevelWarning},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyLevel(tt.hours), "hours=%v", tt.hours)
	}
}

func TestMonitor_CheckThreeDayRule_Buckets(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("warn", now, 30*time.Hour),  // 42h remaining
		receivedAgo("crit", now, 70*time.Hour),  // 2h remaining
		receivedAgo("urg", now, 50*time.Hour),   // 22h remaining
		receivedAgo("fresh", now, 20*time.Hour), // 52h remaining, outside window
	}}
	audits := &fakeAuditRepo{}
	m := NewMonitor(repo, audits, nil, fixedClock(now), nil)

	summary, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)

	// Repository is queried with the 48-hours-remaining threshold.
	assert.Equal(t, now.Add(-24*time.Hour), repo.gotReceivedBefore)

	require.Len(t, summary.Critical, 1)
	require.Len(t, summary.Urgent, 1)
	require.Len(t, summary.Warning, 1)
	assert.Equal(t, 3, summary.TotalPending)

	assert.Equal(t, common.ID("crit"), summary.Critical[0].NotificationID)
	assert.InDelta(t, 2.0, summary.Critical[0].HoursRemaining, 0.01)
	assert.Equal(t, common.ID("urg"), summary.Urgent[0].NotificationID)
	assert.Equal(t, common.ID("warn"), summary.Warning[0].NotificationID)

	require.NotNil(t, summary.NextExpiration)
	assert.Equal(t, now.Add(2*time.Hour), *summary.NextExpiration)
}

func TestMonitor_CheckThreeDayRule_InclusionBoundary(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("exact48", now, 24*time.Hour), // exactly 48h remaining
	}}
	m := NewMonitor(repo, &fakeAuditRepo{}, nil, fixedClock(now), nil)

	summary, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, summary.Warning, 1)
	assert.Equal(t, common.ID("exact48"), summary.Warning[0].NotificationID)
}

func TestMonitor_CheckThreeDayRule_SkipsDownloaded(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	downloaded := receivedAgo("done", now, 70*time.Hour)
	dl := now.Add(-time.Hour)
	downloaded.DownloadedDate = &dl

	repo := &fakeNotificationRepo{pending: []*notification.Notification{downloaded}}
	m := NewMonitor(repo, &fakeAuditRepo{}, nil, fixedClock(now), nil)

	summary, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalPending)
	assert.Nil(t, summary.NextExpiration)
}

func TestMonitor_CheckThreeDayRule_SortsBucketsByUrgency(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("b", now, 67*time.Hour), // 5h remaining
		receivedAgo("a", now, 70*time.Hour), // 2h remaining
	}}
	m := NewMonitor(repo, &fakeAuditRepo{}, nil, fixedClock(now), nil)

	summary, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, summary.Critical, 2)
	assert.Equal(t, common.ID("a"), summary.Critical[0].NotificationID)
	assert.Equal(t, common.ID("b"), summary.Critical[1].NotificationID)
}

func TestMonitor_CheckThreeDayRule_WritesAuditEntry(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("crit", now, 70*time.Hour),
	}}
	audits := &fakeAuditRepo{}
	m := NewMonitor(repo, audits, nil, fixedClock(now), nil)

	_, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, audits.entries, 1)
	entry := audits.entries[0]
	assert.Nil(t, entry.Actor)
	assert.Equal(t, audit.ActionThreeDayScan, entry.Action)
	assert.Equal(t, audit.TargetTypeSystem, entry.TargetType)
	assert.Equal(t, 1, entry.Metadata["critical_count"])
	assert.Equal(t, 0, entry.Metadata["urgent_count"])
	assert.Equal(t, 1, entry.Metadata["total_pending"])
	assert.Equal(t, now.Add(2*time.Hour).UTC().Format(time.RFC3339), entry.Metadata["next_expiration"])
}

func TestMonitor_CheckThreeDayRule_AuditFailureFailsScan(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{}
	audits := &fakeAuditRepo{err: assert.AnError}
	m := NewMonitor(repo, audits, nil, fixedClock(now), nil)

	_, err := m.CheckThreeDayRule(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDBQueryError))
}

func TestMonitor_CheckThreeDayRule_PublishesScanEvent(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("urg", now, 50*time.Hour),
	}}
	events := &fakePublisher{}
	m := NewMonitor(repo, &fakeAuditRepo{}, events, fixedClock(now), nil)

	_, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, events.events, 1)
	assert.Equal(t, TopicThreeDayScan, events.events[0].Topic)
}

func TestMonitor_CheckThreeDayRule_PublishFailureDoesNotFailScan(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{}
	events := &fakePublisher{err: assert.AnError}
	m := NewMonitor(repo, &fakeAuditRepo{}, events, fixedClock(now), nil)

	_, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)
}

func TestMonitor_CheckThreeDayRule_TypedNilPublisher(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{pending: []*notification.Notification{
		receivedAgo("urg", now, 50*time.Hour),
	}}
	var events *fakePublisher
	m := NewMonitor(repo, &fakeAuditRepo{}, events, fixedClock(now), nil)

	summary, err := m.CheckThreeDayRule(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalPending)
}

func TestMonitor_GetExpiredNotifications(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	repo := &fakeNotificationRepo{expired: []*notification.Notification{
		receivedAgo("older", now, 90*time.Hour),
		receivedAgo("newer", now, 73*time.Hour),
	}}
	m := NewMonitor(repo, &fakeAuditRepo{}, nil, fixedClock(now), nil)

	out, err := m.GetExpiredNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Ordered by expiration, most-overdue first; both forced CRITICAL at zero
	// hours.
	assert.Equal(t, common.ID("older"), out[0].NotificationID)
	for _, n := range out {
		assert.Equal(t, LevelCritical, n.Level)
		assert.Zero(t, n.HoursRemaining)
	}
}

func TestMonitor_CalculateHoursRemaining_NeverNegative(t *testing.T) {
	t.Parallel()

	now := date(2025, 6, 2).Add(12 * time.Hour)
	m := NewMonitor(&fakeNotificationRepo{}, &fakeAuditRepo{}, nil, fixedClock(now), nil)

	assert.Zero(t, m.CalculateHoursRemaining(now.Add(-80*time.Hour)))
	assert.InDelta(t, 72.0, m.CalculateHoursRemaining(now), 0.001)
	assert.InDelta(t, 2.0, m.CalculateHoursRemaining(now.Add(-70*time.Hour)), 0.001)
}
