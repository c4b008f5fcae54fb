package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DatabaseURL selects the Postgres storage collaborator when set.
	DatabaseURL string
	// DataFile selects the JSON file storage collaborator when set and no
	// database is configured. With neither, state lives in memory only.
	DataFile string

	// ClinicTimezone is the IANA zone used for "today" computations.
	ClinicTimezone string

	// PastBookingToleranceSecs absorbs clock/UI latency when validating that
	// an appointment is not in the past.
	PastBookingToleranceSecs int

	// Defaults applied when seeding a factory dataset.
	FinancialGoal     float64
	ScheduleStartHour int
	ScheduleEndHour   int

	// CORSAllowedOrigins is the comma-separated browser origin allowlist.
	CORSAllowedOrigins []string

	// RateLimit is the per-IP request rate in requests/sec. Zero disables
	// limiting.
	RateLimit float64
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:                     getEnv("PORT", "8080"),
		Env:                      getEnv("ENV", "development"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		DataFile:                 getEnv("CLINIC_DATA_FILE", ""),
		ClinicTimezone:           getEnv("CLINIC_TZ", "America/La_Paz"),
		PastBookingToleranceSecs: getEnvAsInt("PAST_BOOKING_TOLERANCE_SECS", 60),
		FinancialGoal:            getEnvAsFloat("FINANCIAL_GOAL", 20000),
		ScheduleStartHour:        getEnvAsInt("SCHEDULE_START_HOUR", 8),
		ScheduleEndHour:          getEnvAsInt("SCHEDULE_END_HOUR", 18),
		CORSAllowedOrigins:       getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		RateLimit:                getEnvAsFloat("RATE_LIMIT_RPS", 0),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a
// default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping empty
// entries.
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
