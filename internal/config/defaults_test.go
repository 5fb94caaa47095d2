package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_NilConfig(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultScanInterval, cfg.Worker.ScanInterval)
	assert.Equal(t, DefaultAlertInterval, cfg.Worker.AlertInterval)
	assert.Equal(t, DefaultConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultTimezone, cfg.Calendar.Timezone)
	assert.Equal(t, DefaultAlertHour, cfg.Calendar.AlertHour)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Database.Host = "db.internal"
	cfg.Worker.ScanInterval = time.Minute
	cfg.Calendar.Timezone = "UTC"
	cfg.Log.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, time.Minute, cfg.Worker.ScanInterval)
	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.Equal(t, "debug", cfg.Log.Level)
}
