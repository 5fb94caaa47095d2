// apiserver is the LexWatch REST API server.  It wires the deadline engine
// to PostgreSQL, Redis, the mail provider and (optionally) Kafka, and serves
// the versioned HTTP API plus probe and metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
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
	httpserver "github.com/lexwatch/lexwatch/internal/interfaces/http"
	"github.com/lexwatch/lexwatch/internal/interfaces/http/handlers"
)

// version is injected via ldflags.
var version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	poolStatsInterval = 15 * time.Second
	metricsNamespace  = "lexwatch"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "apiserver:", err)
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
	log = log.Named("apiserver")

	log.Info("starting",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	// Schema first; serving requests against a stale schema helps nobody.
	if cfg.Database.MigrationPath != "" {
		dsn := postgres.BuildDSN(cfg.Database)
		if err := postgres.RunMigrations(dsn, cfg.Database.MigrationPath); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

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
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka, log)
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
	templateRepo := pgrepos.NewPostgresTemplateRepo(conn, log)
	notificationRepo := pgrepos.NewPostgresNotificationRepo(conn, log)
	lawyerRepo := pgrepos.NewPostgresLawyerRepo(conn, log)
	auditRepo := pgrepos.NewPostgresAuditRepo(conn, log)
	sentAlerts := redis.NewSentAlertStore(rdb)

	calculator := deadline.NewCalculator(taskRepo, lawyerRepo, calendar, nil, log)
	monitor := deadline.NewMonitor(notificationRepo, auditRepo, events, nil, log)
	generator := deadline.NewGenerator(taskRepo, templateRepo, auditRepo, nil, log)
	scheduler := deadline.NewScheduler(calculator, mailClient, sentAlerts, events, nil, loc, cfg.Calendar.AlertHour, log)
	taskService := deadline.NewTaskService(taskRepo, auditRepo, nil, log)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            metricsNamespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, log)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	health := handlers.NewHealthHandler(version,
		handlers.CheckerFunc{CheckerName: "postgres", Fn: conn.HealthCheck},
		handlers.CheckerFunc{CheckerName: "redis", Fn: rdb.Ping},
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Deadlines:        handlers.NewDeadlineHandler(calculator, monitor),
		Tasks:            handlers.NewTaskHandler(generator, taskService),
		Alerts:           handlers.NewAlertHandler(scheduler),
		Health:           health,
		Logger:           log,
		MetricsCollector: collector,
		AppMetrics:       appMetrics,
		Mode:             cfg.Server.Mode,
	})

	srv := httpserver.NewServer(cfg.Server, router, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reportPoolStats(ctx, conn, appMetrics)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := srv.Stop(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
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

// reportPoolStats mirrors the sql.DB pool counters into gauges until ctx
// is cancelled.
func reportPoolStats(ctx context.Context, conn *postgres.Connection, m *prometheus.AppMetrics) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := conn.Stats()
			m.DBOpenConnections.Set(float64(stats.OpenConnections))
			m.DBInUseConnections.Set(float64(stats.InUse))
		}
	}
}
