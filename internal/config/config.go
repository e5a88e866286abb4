package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	EventBusMemory = "memory"
	EventBusNats   = "nats"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Flow      FlowConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string // empty: CSRF tokens stay in process
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "memory"
	Connection string
}

type AuthConfig struct {
	JwtSecret        string
	CsrfCookieName   string
	CsrfCookieSecure bool
}

// FlowConfig holds the business constants of the cancellation flow.
type FlowConfig struct {
	DownsellDiscount  int // minor units
	FeedbackMinLength int
	AccessPeriodDays  int
}

type EventsConfig struct {
	Bus          string // "memory" or "nats"
	Topic        string
	NatsURL      string
	RelayLogPath string
}

type TelemetryConfig struct {
	Enabled      bool
	OtlpEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:        getEnv("JWT_SECRET", ""),
			CsrfCookieName:   getEnv("CSRF_COOKIE_NAME", "csrf_token"),
			CsrfCookieSecure: getEnvAsBool("CSRF_COOKIE_SECURE", false),
		},
		Flow: FlowConfig{
			DownsellDiscount:  getEnvAsInt("DOWNSELL_DISCOUNT", 1000),
			FeedbackMinLength: getEnvAsInt("FEEDBACK_MIN_LENGTH", 25),
			AccessPeriodDays:  getEnvAsInt("ACCESS_PERIOD_DAYS", 30),
		},
		Events: EventsConfig{
			Bus:          strings.ToLower(getEnv("EVENT_BUS", EventBusMemory)),
			Topic:        getEnv("EVENT_TOPIC_NAME", "CANCEL_FLOW_EVENTS"),
			NatsURL:      getEnv("NATS_URL", "nats://localhost:4222"),
			RelayLogPath: getEnv("EVENT_LOG_FILE_PATH", "events.log"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OtlpEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "cancel-flow-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
