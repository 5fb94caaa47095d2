// worker is the LexWatch background process.  It periodically runs the
// three-day acceptance scan and the alert generate/send cycle, serialized
// across replicas with a Redis lock, and exposes a small health and metrics
// endpoint for probes.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexwatch/lexwatch/internal/application/deadline"
	"github.com/lexwatch/lexwatch/internal/config"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres"
	pgrepos "github.com/lexwatch/lexwatch/internal/infrastructure/database/postgres/repositories"
	"github.com/lexwatch/lexwatch/internal/infrastructure/database/redis"
	"github.com/lexwatch/lexwatch/internal/infrastructure/mail"
	"github.com/lexwatch/lexwatch/internal/infrastructure/messaging/kafka"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/prometheus"
)

// version is injected via ldflags.
var version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"

	scanLockName  = "worker:threeday-scan"
	alertLockName = "worker:alert-cycle"
	lockTTL       = 5 * time.Minute
	passTimeout   = 2 * time.Minute
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "worker:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logging.SetDefault(log)
	log = log.Named("worker")

	log.Info("starting",
		logging.String("version", version),
		logging.Duration("scan_interval", cfg.Worker.ScanInterval),
		logging.Duration("alert_interval", cfg.Worker.AlertInterval))

	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer func() { _ = conn.Close() }()

	rdb, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	var events deadline.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer func() { _ = producer.Close() }()
		events = producer
	}

	mailClient := mail.NewClient(cfg.Mail, log)

	loc := time.UTC
	if cfg.Calendar.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Calendar.Timezone)
		if err != nil {
			return fmt.Errorf("calendar timezone %q: %w", cfg.Calendar.Timezone, err)
		}
	}

	var holidays deadline.HolidayProvider
	if cfg.Calendar.HolidayFile != "" {
		holidays, err = deadline.NewFileHolidayProvider(cfg.Calendar.HolidayFile, log)
		if err != nil {
			return fmt.Errorf("holiday file: %w", err)
		}
	}
	calendar := deadline.NewCalendar(holidays)

	taskRepo := pgrepos.NewPostgresTaskRepo(conn, log)
	notificationRepo := pgrepos.NewPostgresNotificationRepo(conn, log)
	lawyerRepo := pgrepos.NewPostgresLawyerRepo(conn, log)
	auditRepo := pgrepos.NewPostgresAuditRepo(conn, log)
	sentAlerts := redis.NewSentAlertStore(rdb)

	calculator := deadline.NewCalculator(taskRepo, lawyerRepo, calendar, nil, log)
	monitor := deadline.NewMonitor(notificationRepo, auditRepo, events, nil, log)
	scheduler := deadline.NewScheduler(calculator, mailClient, sentAlerts, events, nil, loc, cfg.Calendar.AlertHour, log)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "lexwatch",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	w := &worker{
		monitor:   monitor,
		scheduler: scheduler,
		scanLock:  redis.NewLock(rdb, scanLockName, lockTTL),
		alertLock: redis.NewLock(rdb, alertLockName, lockTTL),
		metrics:   metrics,
		log:       log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthSrv := startHealthServer(cfg.Worker.HealthPort, collector, conn, rdb, log)

	go w.loop(ctx, cfg.Worker.ScanInterval, w.scanPass)
	go w.loop(ctx, cfg.Worker.AlertInterval, w.alertPass)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown failed", logging.Err(err))
	}
	return nil
}

type worker struct {
	monitor   *deadline.Monitor
	scheduler *deadline.Scheduler
	scanLock  *redis.Lock
	alertLock *redis.Lock
	metrics   *prometheus.AppMetrics
	log       logging.Logger
}

// loop runs pass at every interval tick, plus once immediately, until ctx is
// cancelled.
func (w *worker) loop(ctx context.Context, interval time.Duration, pass func(ctx context.Context)) {
	if interval <= 0 {
		interval = time.Minute
	}

	runOnce := func() {
		passCtx, cancel := context.WithTimeout(ctx, passTimeout)
		defer cancel()
		pass(passCtx)
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// scanPass runs one three-day acceptance scan if the lock is free.
func (w *worker) scanPass(ctx context.Context) {
	acquired, err := w.scanLock.TryAcquire(ctx)
	if err != nil {
		w.log.Error("scan lock acquisition failed", logging.Err(err))
		return
	}
	if !acquired {
		w.log.Debug("scan lock held elsewhere, skipping pass")
		return
	}
	defer func() {
		if err := w.scanLock.Release(ctx); err != nil {
			w.log.Warn("scan lock release failed", logging.Err(err))
		}
	}()

	timer := prometheus.NewTimer(w.metrics.ScanDuration.WithLabelValues())
	summary, err := w.monitor.CheckThreeDayRule(ctx, nil)
	timer.ObserveDuration()
	if err != nil {
		w.metrics.ScansTotal.WithLabelValues("error").Inc()
		w.log.Error("three-day scan failed", logging.Err(err))
		return
	}
	w.metrics.ScansTotal.WithLabelValues("ok").Inc()
	w.metrics.PendingNotifications.WithLabelValues("critical").Set(float64(len(summary.Critical)))
	w.metrics.PendingNotifications.WithLabelValues("urgent").Set(float64(len(summary.Urgent)))
	w.metrics.PendingNotifications.WithLabelValues("warning").Set(float64(len(summary.Warning)))

	expired, err := w.monitor.GetExpiredNotifications(ctx)
	if err != nil {
		w.log.Error("expired notification lookup failed", logging.Err(err))
		return
	}
	w.metrics.ExpiredNotifications.Set(float64(len(expired)))
}

// alertPass regenerates the alert set and delivers the due ones if the lock
// is free.
func (w *worker) alertPass(ctx context.Context) {
	acquired, err := w.alertLock.TryAcquire(ctx)
	if err != nil {
		w.log.Error("alert lock acquisition failed", logging.Err(err))
		return
	}
	if !acquired {
		w.log.Debug("alert lock held elsewhere, skipping pass")
		return
	}
	defer func() {
		if err := w.alertLock.Release(ctx); err != nil {
			w.log.Warn("alert lock release failed", logging.Err(err))
		}
	}()

	alerts, err := w.scheduler.GeneratePendingAlerts(ctx)
	if err != nil {
		w.log.Error("alert generation failed", logging.Err(err))
		return
	}
	for _, a := range alerts {
		w.metrics.AlertsGenerated.WithLabelValues(string(a.Tier)).Inc()
	}

	results, err := w.scheduler.CheckAndSendDueAlerts(ctx)
	if err != nil {
		w.log.Error("alert delivery failed", logging.Err(err))
		return
	}
	sent, failed := 0, 0
	for _, r := range results {
		if r.Success {
			sent++
		} else {
			failed++
		}
	}
	if sent > 0 || failed > 0 {
		w.log.Info("alert pass finished",
			logging.Int("sent", sent),
			logging.Int("failed", failed))
	}
}

// startHealthServer serves /healthz, /readyz and /metrics for probes.
func startHealthServer(port int, collector prometheus.MetricsCollector, conn *postgres.Connection, rdb *redis.Client, log logging.Logger) *http.Server {
	if port == 0 {
		port = 8081
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := conn.HealthCheck(ctx); err != nil {
			http.Error(w, "postgres: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(ctx); err != nil {
			http.Error(w, "redis: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health server failed", logging.Err(err))
		}
	}()
	return srv
}

// loadConfig reads the config file when it exists, otherwise falls back to
// environment variables only.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	lc := logging.LogConfig{
		Level:  cfg.Level,
		Format: cfg.Format,
	}
	if cfg.Output != "" {
		lc.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(lc)
}
