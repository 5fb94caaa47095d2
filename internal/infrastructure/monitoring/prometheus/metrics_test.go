package prometheus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppMetrics(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ScansTotal.WithLabelValues("success").Inc()
	m.ScanDuration.WithLabelValues().Observe(0.8)
	m.PendingNotifications.WithLabelValues("URGENT").Set(4)
	m.ExpiredNotifications.Set(1)
	m.AlertsGenerated.WithLabelValues("48h").Inc()
	m.AlertsSent.WithLabelValues("24h").Inc()
	m.AlertsFailed.WithLabelValues("grace").Inc()
	m.TasksGenerated.WithLabelValues("default").Add(4)
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/deadlines", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/api/v1/deadlines").Observe(0.02)
	m.DBOpenConnections.Set(10)
	m.DBInUseConnections.Set(3)

	body := scrape(t, c)
	assert.Contains(t, body, `lexwatch_threeday_scans_total{result="success"} 1`)
	assert.Contains(t, body, "lexwatch_threeday_scan_duration_seconds_count 1")
	assert.Contains(t, body, `lexwatch_pending_notifications{level="URGENT"} 4`)
	assert.Contains(t, body, "lexwatch_expired_notifications 1")
	assert.Contains(t, body, `lexwatch_alerts_generated_total{tier="48h"} 1`)
	assert.Contains(t, body, `lexwatch_alerts_sent_total{tier="24h"} 1`)
	assert.Contains(t, body, `lexwatch_alerts_failed_total{tier="grace"} 1`)
	assert.Contains(t, body, `lexwatch_hearing_tasks_generated_total{source="default"} 4`)
	assert.Contains(t, body, `lexwatch_http_requests_total{method="GET",path="/api/v1/deadlines",status="200"} 1`)
	assert.Contains(t, body, "lexwatch_db_open_connections 10")
	assert.Contains(t, body, "lexwatch_db_in_use_connections 3")
}

func TestNewAppMetrics_Idempotent(t *testing.T) {
	t.Parallel()

	c := newTestCollector(t)
	first := NewAppMetrics(c)
	second := NewAppMetrics(c)

	first.ScansTotal.WithLabelValues("success").Inc()
	second.ScansTotal.WithLabelValues("success").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `lexwatch_threeday_scans_total{result="success"} 2`)
}
