// Package http wires the REST API: router construction and server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/logging"
	"github.com/lexwatch/lexwatch/internal/infrastructure/monitoring/prometheus"
	"github.com/lexwatch/lexwatch/internal/interfaces/http/handlers"
	"github.com/lexwatch/lexwatch/internal/interfaces/http/middleware"
)

// RouterConfig aggregates every handler and cross-cutting dependency required
// to build the full route tree.
type RouterConfig struct {
	Deadlines *handlers.DeadlineHandler
	Tasks     *handlers.TaskHandler
	Alerts    *handlers.AlertHandler
	Health    *handlers.HealthHandler

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics

	// Mode is the gin mode: "debug", "release" or "test".
	Mode string

	// AllowedOrigins restricts CORS; empty allows every origin.
	AllowedOrigins []string
}

// NewRouter builds the gin engine: global middleware, public probe and
// metrics endpoints, and the versioned API group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.Metrics(cfg.AppMetrics))
	}
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	api := r.Group("/api/v1")
	registerDeadlineRoutes(api, cfg.Deadlines)
	registerTaskRoutes(api, cfg.Tasks)
	registerAlertRoutes(api, cfg.Alerts)

	return r
}

// registerDeadlineRoutes mounts deadline and acceptance-window endpoints.
func registerDeadlineRoutes(api *gin.RouterGroup, h *handlers.DeadlineHandler) {
	if h == nil {
		return
	}
	api.GET("/deadlines", h.ListUpcoming)
	api.GET("/notifications/acceptance", h.AcceptanceSummary)
	api.GET("/notifications/expired", h.ListExpired)
}

// registerTaskRoutes mounts task generation, lookup and completion endpoints.
func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	if h == nil {
		return
	}
	api.POST("/hearings/tasks", h.GenerateHearingTasks)
	api.GET("/tasks/:taskID", h.Get)
	api.POST("/tasks/:taskID/complete", h.Complete)
}

// registerAlertRoutes mounts the alert scheduler endpoints.
func registerAlertRoutes(api *gin.RouterGroup, h *handlers.AlertHandler) {
	if h == nil {
		return
	}
	api.POST("/alerts/generate", h.Generate)
	api.POST("/alerts/check", h.Check)
	api.GET("/alerts/summary", h.Summary)
}
