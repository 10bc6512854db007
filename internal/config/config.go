package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	Queue     QueueConfig
	Worker    WorkerConfig
	Status    StatusConfig
	Extractor ExtractorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds record store connection settings. Driver selects between an
// embedded sqlite file and PostgreSQL.
type DBConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxOpen    int    `mapstructure:"max_open"`
	MaxIdle    int    `mapstructure:"max_idle"`
}

// DSN returns the connection string for the configured driver.
func (d *DBConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds task queue settings. Enqueue blocks while the queue holds
// Capacity identifiers, which backpressures submissions instead of dropping work.
type QueueConfig struct {
	Capacity    int `mapstructure:"capacity"`
	Concurrency int `mapstructure:"concurrency"`
}

// WorkerConfig holds the retry and timeout policy for extraction attempts.
// MaxRetries is the total attempt budget per request.
type WorkerConfig struct {
	MaxRetries         int `mapstructure:"max_retries"`
	AttemptTimeoutSecs int `mapstructure:"attempt_timeout_secs"`
}

// AttemptTimeout returns the per-attempt time budget.
func (w *WorkerConfig) AttemptTimeout() time.Duration {
	return time.Duration(w.AttemptTimeoutSecs) * time.Second
}

// StatusConfig holds the short-poll budget for the read path.
type StatusConfig struct {
	PollAttempts int `mapstructure:"poll_attempts"`
	PollDelayMS  int `mapstructure:"poll_delay_ms"`
}

// PollDelay returns the delay between short-poll re-reads.
func (s *StatusConfig) PollDelay() time.Duration {
	return time.Duration(s.PollDelayMS) * time.Millisecond
}

// ExtractorConfig selects the extraction backend and the semantic provider.
// Backend is "pattern" (deterministic only) or "merged" (semantic merged
// field-by-field with the pattern baseline).
type ExtractorConfig struct {
	Backend     string `mapstructure:"backend"`
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Load reads configuration from environment variables with the EXTRACTD_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EXTRACTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.sqlite_path", "data/extractd.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "extractd")
	v.SetDefault("db.password", "extractd_secret")
	v.SetDefault("db.name", "extractd_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.capacity", 1024)
	v.SetDefault("queue.concurrency", 1)

	// Worker defaults
	v.SetDefault("worker.max_retries", 3)
	v.SetDefault("worker.attempt_timeout_secs", 60)

	// Status read short-poll defaults
	v.SetDefault("status.poll_attempts", 3)
	v.SetDefault("status.poll_delay_ms", 1000)

	// Extractor defaults
	v.SetDefault("extractor.backend", "pattern")
	v.SetDefault("extractor.provider", "ollama")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.model", "")
	v.SetDefault("extractor.base_url", "")
	v.SetDefault("extractor.timeout_secs", 120)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "EXTRACTD_SERVER_PORT",
		"server.read_timeout":         "EXTRACTD_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "EXTRACTD_SERVER_WRITE_TIMEOUT",
		"server.environment":          "EXTRACTD_SERVER_ENVIRONMENT",
		"db.driver":                   "EXTRACTD_DB_DRIVER",
		"db.sqlite_path":              "EXTRACTD_DB_SQLITE_PATH",
		"db.host":                     "EXTRACTD_DB_HOST",
		"db.port":                     "EXTRACTD_DB_PORT",
		"db.user":                     "EXTRACTD_DB_USER",
		"db.password":                 "EXTRACTD_DB_PASSWORD",
		"db.name":                     "EXTRACTD_DB_NAME",
		"db.sslmode":                  "EXTRACTD_DB_SSLMODE",
		"db.max_open":                 "EXTRACTD_DB_MAX_OPEN",
		"db.max_idle":                 "EXTRACTD_DB_MAX_IDLE",
		"log.level":                   "EXTRACTD_LOG_LEVEL",
		"log.format":                  "EXTRACTD_LOG_FORMAT",
		"cors.allowed_origins":        "EXTRACTD_CORS_ALLOWED_ORIGINS",
		"queue.capacity":              "EXTRACTD_QUEUE_CAPACITY",
		"queue.concurrency":           "EXTRACTD_QUEUE_CONCURRENCY",
		"worker.max_retries":          "EXTRACTD_WORKER_MAX_RETRIES",
		"worker.attempt_timeout_secs": "EXTRACTD_WORKER_ATTEMPT_TIMEOUT_SECS",
		"status.poll_attempts":        "EXTRACTD_STATUS_POLL_ATTEMPTS",
		"status.poll_delay_ms":        "EXTRACTD_STATUS_POLL_DELAY_MS",
		"extractor.backend":           "EXTRACTD_EXTRACTOR_BACKEND",
		"extractor.provider":          "EXTRACTD_EXTRACTOR_PROVIDER",
		"extractor.api_key":           "EXTRACTD_EXTRACTOR_API_KEY",
		"extractor.model":             "EXTRACTD_EXTRACTOR_MODEL",
		"extractor.base_url":          "EXTRACTD_EXTRACTOR_BASE_URL",
		"extractor.timeout_secs":      "EXTRACTD_EXTRACTOR_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:     v.GetString("db.driver"),
		SQLitePath: v.GetString("db.sqlite_path"),
		Host:       v.GetString("db.host"),
		Port:       v.GetInt("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		Name:       v.GetString("db.name"),
		SSLMode:    v.GetString("db.sslmode"),
		MaxOpen:    v.GetInt("db.max_open"),
		MaxIdle:    v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Queue = QueueConfig{
		Capacity:    v.GetInt("queue.capacity"),
		Concurrency: v.GetInt("queue.concurrency"),
	}
	cfg.Worker = WorkerConfig{
		MaxRetries:         v.GetInt("worker.max_retries"),
		AttemptTimeoutSecs: v.GetInt("worker.attempt_timeout_secs"),
	}
	cfg.Status = StatusConfig{
		PollAttempts: v.GetInt("status.poll_attempts"),
		PollDelayMS:  v.GetInt("status.poll_delay_ms"),
	}
	cfg.Extractor = ExtractorConfig{
		Backend:     v.GetString("extractor.backend"),
		Provider:    v.GetString("extractor.provider"),
		APIKey:      v.GetString("extractor.api_key"),
		Model:       v.GetString("extractor.model"),
		BaseURL:     v.GetString("extractor.base_url"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
	}

	return cfg, nil
}
