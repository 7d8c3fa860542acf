// Package config loads application configuration from a .env file and the
// process environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds runtime configuration values.
type Config struct {
	Port            string
	JWTSecret       string
	JWTExpiry       time.Duration
	LoginDelay      time.Duration
	PrintDelay      time.Duration
	Locale          string
	MQTTBroker      string
	MQTTClientID    string
	MQTTPrintTopic  string
	RateLimitMax    int
	RateLimitWindow time.Duration
	SessionIdle     time.Duration
	SessionSweep    time.Duration
	LogLevel        string
	LogFormat       string
}

// Load reads the optional .env file and builds a Config. Unset or malformed
// variables fall back to their defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to read .env file")
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		JWTSecret:       getenv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry:       parseDur(getenv("JWT_EXPIRY", "24h"), 24*time.Hour),
		LoginDelay:      parseDur(getenv("LOGIN_DELAY", "800ms"), 800*time.Millisecond),
		PrintDelay:      parseDur(getenv("PRINT_DELAY", "100ms"), 100*time.Millisecond),
		Locale:          getenv("LOCALE", "id-ID"),
		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", "ototansan-server"),
		MQTTPrintTopic:  getenv("MQTT_PRINT_TOPIC", "ototansan/print"),
		RateLimitMax:    atoi(getenv("RATE_LIMIT_MAX", "120"), 120),
		RateLimitWindow: parseDur(getenv("RATE_LIMIT_WINDOW", "60s"), time.Minute),
		SessionIdle:     parseDur(getenv("SESSION_IDLE_TIMEOUT", "24h"), 24*time.Hour),
		SessionSweep:    parseDur(getenv("SESSION_SWEEP_INTERVAL", "5m"), 5*time.Minute),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "text"),
	}
}

// ConfigureLogging applies LogLevel and LogFormat to the standard logger.
func (c Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
