package prometheus

// AppMetrics groups every metric the service records: three-day-rule scan
// activity, alert delivery outcomes, task generation, HTTP traffic and the
// database pool.
type AppMetrics struct {
	// Three-day-rule monitor.
	ScansTotal           CounterVec // labels: result
	ScanDuration         HistogramVec
	PendingNotifications GaugeVec // labels: level
	ExpiredNotifications Gauge

	// Alert scheduler.
	AlertsGenerated CounterVec // labels: tier
	AlertsSent      CounterVec // labels: tier
	AlertsFailed    CounterVec // labels: tier

	// Hearing task chains.
	TasksGenerated CounterVec // labels: source

	// HTTP API.
	HTTPRequestsTotal   CounterVec // labels: method, path, status
	HTTPRequestDuration HistogramVec

	// Database pool.
	DBOpenConnections  Gauge
	DBInUseConnections Gauge
}

// DefaultHTTPDurationBuckets suit request latencies from fast reads to
// full scan triggers.
var DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// DefaultScanDurationBuckets cover scan passes over large notification sets.
var DefaultScanDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// NewAppMetrics registers every application metric on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		ScansTotal: collector.RegisterCounter(
			"threeday_scans_total",
			"Total three-day-rule scan passes by result.",
			"result"),
		ScanDuration: collector.RegisterHistogram(
			"threeday_scan_duration_seconds",
			"Duration of three-day-rule scan passes.",
			DefaultScanDurationBuckets),
		PendingNotifications: collector.RegisterGauge(
			"pending_notifications",
			"Notifications awaiting download, by urgency level.",
			"level"),
		ExpiredNotifications: collector.RegisterGauge(
			"expired_notifications",
			"Notifications past the acceptance window at last scan.").
			WithLabelValues(),

		AlertsGenerated: collector.RegisterCounter(
			"alerts_generated_total",
			"Pending alerts produced by the scheduler, by tier.",
			"tier"),
		AlertsSent: collector.RegisterCounter(
			"alerts_sent_total",
			"Alert emails delivered, by tier.",
			"tier"),
		AlertsFailed: collector.RegisterCounter(
			"alerts_failed_total",
			"Alert emails that could not be delivered, by tier.",
			"tier"),

		TasksGenerated: collector.RegisterCounter(
			"hearing_tasks_generated_total",
			"Tasks created for hearing preparation chains, by template source.",
			"source"),

		HTTPRequestsTotal: collector.RegisterCounter(
			"http_requests_total",
			"HTTP requests served, by method, path and status.",
			"method", "path", "status"),
		HTTPRequestDuration: collector.RegisterHistogram(
			"http_request_duration_seconds",
			"HTTP request latency.",
			DefaultHTTPDurationBuckets,
			"method", "path"),

		DBOpenConnections: collector.RegisterGauge(
			"db_open_connections",
			"Open connections in the database pool.").
			WithLabelValues(),
		DBInUseConnections: collector.RegisterGauge(
			"db_in_use_connections",
			"Connections currently in use in the database pool.").
			WithLabelValues(),
	}
}
