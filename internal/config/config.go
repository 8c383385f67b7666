package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment       string
	LogLevel          zerolog.Level
	HTTPTimeout       time.Duration
	StructuredBaseURL string
	BulletinBaseURL   string
	BulletinAPIKey    string
	LookbackHours     int
	MaxReportAge      time.Duration
	ParallelFetch     bool
	Port              string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithStructuredBaseURL points the structured report source at another host
func WithStructuredBaseURL(url string) Option {
	return func(c *Config) {
		c.StructuredBaseURL = url
	}
}

// WithBulletinSource points the raw bulletin source at another host
func WithBulletinSource(url, apiKey string) Option {
	return func(c *Config) {
		c.BulletinBaseURL = url
		c.BulletinAPIKey = apiKey
	}
}

// WithMaxReportAge sets how old a structured report may be before the
// bulletin source is consulted instead
func WithMaxReportAge(age time.Duration) Option {
	return func(c *Config) {
		if age > 0 {
			c.MaxReportAge = age
		}
	}
}

// WithParallelFetch toggles querying both sources at once
func WithParallelFetch(enabled bool) Option {
	return func(c *Config) {
		c.ParallelFetch = enabled
	}
}

// WithPort sets the listen port of the local server
func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:       "production",
		LogLevel:          zerolog.InfoLevel,
		HTTPTimeout:       10 * time.Second,
		StructuredBaseURL: "https://aviationweather.gov",
		BulletinBaseURL:   "https://redemet.decea.mil.br",
		LookbackHours:     3,
		MaxReportAge:      3 * time.Hour,
		ParallelFetch:     true,
		Port:              "8080",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

// IsLocal reports whether console-friendly output is wanted
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithStructuredBaseURL(getEnvOrDefault("STRUCTURED_BASE_URL", "https://aviationweather.gov")),
		WithBulletinSource(
			getEnvOrDefault("BULLETIN_BASE_URL", "https://redemet.decea.mil.br"),
			os.Getenv("BULLETIN_API_KEY"),
		),
		WithMaxReportAge(getDurationEnvOrDefault("MAX_REPORT_AGE", 3*time.Hour)),
		WithParallelFetch(getEnvBool("PARALLEL_FETCH", true)),
		WithPort(getEnvOrDefault("PORT", "8080")),
		func(c *Config) {
			c.LookbackHours = getEnvInt("STRUCTURED_LOOKBACK_HOURS", 3)
		},
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Msg("Invalid duration in environment variable, using default")
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
