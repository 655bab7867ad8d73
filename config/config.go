// Package config loads runtime configuration from the environment.
// File: config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"lanmomo-web/logger"
)

// Config holds all runtime configuration values.
type Config struct {
	Port          string // HTTP port to listen on
	Env           string // "development", "staging", "production"
	APIBaseURL    string // upstream LAN-party API, e.g. http://localhost:5000
	PublicURL     string // public site URL, used to build ticket QR links
	SessionSecret string
	LogDir        string // empty keeps logging on stdout only

	AllowedOrigins []string // websocket origins; empty allows all

	SeatRefreshInterval   time.Duration
	ServerRefreshInterval time.Duration
	TimerTickInterval     time.Duration
	VisitorIdleTimeout    time.Duration

	PCCapacity      int
	ConsoleCapacity int

	SeatMapDiscardStale bool

	MetricsEnabled bool
	TracingEnabled bool
	AWSRegion      string
}

// Load reads an optional .env file and then the environment. Unset values fall
// back to defaults suitable for local development.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("[config.Load] No .env file loaded: %v", err)
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("APP_ENV", "development"),
		APIBaseURL:            strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		PublicURL:             strings.TrimRight(getEnv("PUBLIC_URL", "https://lanmomo.org"), "/"),
		SessionSecret:         getEnv("SESSION_SECRET", "secret"),
		LogDir:                os.Getenv("LOG_DIR"),
		AllowedOrigins:        getList("ALLOWED_ORIGINS"),
		SeatRefreshInterval:   getDuration("SEAT_REFRESH_INTERVAL", 5*time.Second),
		ServerRefreshInterval: getDuration("SERVER_REFRESH_INTERVAL", 10*time.Second),
		TimerTickInterval:     getDuration("TIMER_TICK_INTERVAL", 100*time.Millisecond),
		VisitorIdleTimeout:    getDuration("VISITOR_IDLE_TIMEOUT", 30*time.Minute),
		PCCapacity:            getInt("PC_CAPACITY", 96),
		ConsoleCapacity:       getInt("CONSOLE_CAPACITY", 32),
		SeatMapDiscardStale:   getBool("SEAT_MAP_DISCARD_STALE", false),
		MetricsEnabled:        getBool("METRICS_ENABLED", false),
		TracingEnabled:        getBool("TRACING_ENABLED", false),
		AWSRegion:             getEnv("AWS_REGION", "ap-southeast-2"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn.Printf("[config.Load] Invalid int for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn.Printf("[config.Load] Invalid bool for %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Warn.Printf("[config.Load] Invalid duration for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
