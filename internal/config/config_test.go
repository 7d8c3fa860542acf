package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "JWT_EXPIRY", "LOGIN_DELAY", "PRINT_DELAY",
		"LOCALE", "MQTT_BROKER", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "SESSION_IDLE_TIMEOUT", "SESSION_SWEEP_INTERVAL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 800*time.Millisecond, cfg.LoginDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.PrintDelay)
	assert.Equal(t, "id-ID", cfg.Locale)
	assert.Empty(t, cfg.MQTTBroker)
	assert.Equal(t, "ototansan/print", cfg.MQTTPrintTopic)
	assert.Equal(t, 120, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdle)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweep)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOGIN_DELAY", "0s")
	t.Setenv("LOCALE", "en-US")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("RATE_LIMIT_MAX", "5")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.LoginDelay)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.Equal(t, 5, cfg.RateLimitMax)
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "tomorrow")
	t.Setenv("RATE_LIMIT_MAX", "-3")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 120, cfg.RateLimitMax)
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	Config{LogLevel: "debug", LogFormat: "json"}.ConfigureLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	Config{LogLevel: "nonsense"}.ConfigureLogging()
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
