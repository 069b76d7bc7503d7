package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/medlane/prediag-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Consultation flow configuration
	ConsultCfg ConsultConfig `envPrefix:"CONSULT_"`

	// LLM backend configuration
	LLMCfg LLMConfig `envPrefix:"LLM_"`

	// Medical entity recognizer service
	NERConnectorCfg NERConnectorConfig `envPrefix:"NER_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only required by cmd/telegram-bot)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ConsultConfig tunes the follow-up turn loop and the session store.
type ConsultConfig struct {
	// MaxQuestions caps bot questions per session; reaching the cap forces
	// the session to ready-for-diagnosis.
	MaxQuestions int `env:"MAX_QUESTIONS" envDefault:"10"`

	// SessionTTL bounds how long an idle session stays in the store.
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionJanitor  time.Duration `env:"SESSION_JANITOR_INTERVAL" envDefault:"10m"`
}

// LLMConfig configures the text generation backend. An empty API key does
// not fail startup: generation calls short-circuit with a typed failure.
type LLMConfig struct {
	APIKey      string        `env:"API_KEY"`
	Model       string        `env:"MODEL" envDefault:"gpt-4o-mini"`
	CallTimeout time.Duration `env:"CALL_TIMEOUT" envDefault:"30s"`
}

// NERConnectorConfig configures the external medical entity recognizer.
type NERConnectorConfig struct {
	HTTPClientConfig
	RecognizeEndpoint string               `env:"RECOGNIZE_ENDPOINT" envDefault:"/v1/entities"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken        string        `env:"BOT_TOKEN"`
	UpdateTimeout   int           `env:"UPDATE_TIMEOUT" envDefault:"30"`
	StateTTL        time.Duration `env:"STATE_TTL" envDefault:"2h"`
	ShutdownTimeout int           `env:"SHUTDOWN_TIMEOUT" envDefault:"15"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"http://localhost:8090"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.ConsultCfg.MaxQuestions < 1 || cfg.ConsultCfg.MaxQuestions > 50 {
		errs = append(errs, fmt.Sprintf("CONSULT_MAX_QUESTIONS must be between 1 and 50, got %d", cfg.ConsultCfg.MaxQuestions))
	}

	if cfg.ConsultCfg.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("CONSULT_SESSION_TTL must be at least 1m, got %s", cfg.ConsultCfg.SessionTTL))
	}

	if cfg.LLMCfg.CallTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("LLM_CALL_TIMEOUT must be at least 1s, got %s", cfg.LLMCfg.CallTimeout))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
