package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate, for tests to mutate.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Database.User = "lexwatch"
	cfg.Mail.Endpoint = "http://mail.internal/api/send"
	cfg.Mail.FromAddress = "alerts@example.com"
	return cfg
}

func TestValidate_Success(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_ServerPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate_ServerModeInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = "production"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestValidate_DatabaseFieldsRequired(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"missing user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"missing db name", func(c *Config) { c.Database.DBName = "" }, "database.db_name"},
		{"zero max conns", func(c *Config) { c.Database.MaxConns = -1 }, "database.max_conns"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate_RedisAddrRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestValidate_KafkaBrokersOnlyWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Kafka.Enabled = false
	cfg.Kafka.Brokers = nil
	assert.NoError(t, cfg.Validate())

	cfg.Kafka.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestValidate_MailEndpointRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.Endpoint = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.endpoint")
}

func TestValidate_TimezoneInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Calendar.Timezone = "Mars/Olympus"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar.timezone")
}

func TestValidate_AlertHourOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Calendar.AlertHour = 24
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar.alert_hour")
}

func TestValidate_LogLevelInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLocation_ReturnsConfiguredZone(t *testing.T) {
	cfg := validConfig()
	loc := cfg.Location()
	require.NotNil(t, loc)
	assert.Equal(t, DefaultTimezone, loc.String())
}
