package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// Data provider
	TwelveAPIKey   string `env:"TWELVE_API_KEY" envDefault:"-"`
	APIBaseURL     string `env:"API_BASE_URL" envDefault:"https://api.twelvedata.com"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	CandleCount    int    `env:"CANDLE_COUNT" envDefault:"100"`

	// Scanner loop
	ScanInterval           time.Duration `env:"SCAN_INTERVAL" envDefault:"15m"`
	SignalCooldown         time.Duration `env:"SIGNAL_COOLDOWN" envDefault:"2h"`
	SignalExpiry           time.Duration `env:"SIGNAL_EXPIRY" envDefault:"4h"`
	MinConfidence          int           `env:"MIN_CONFIDENCE" envDefault:"60"`
	WatchlistMinConfidence int           `env:"WATCHLIST_MIN_CONFIDENCE" envDefault:"40"`
	MaxSignalsPerCycle     int           `env:"MAX_SIGNALS_PER_CYCLE" envDefault:"3"`
	MinRiskReward          float64       `env:"MIN_RISK_REWARD" envDefault:"1.5"`

	// Entry detection thresholds
	CHoCHConfidence            int     `env:"CHOCH_CONFIDENCE" envDefault:"60"`
	FlipConfidence             int     `env:"FLIP_CONFIDENCE" envDefault:"55"`
	ContinuationConfidence     int     `env:"CONTINUATION_CONFIDENCE" envDefault:"50"`
	StrongZoneBonus            int     `env:"STRONG_ZONE_BONUS" envDefault:"10"`
	MultipleConfirmationsBonus int     `env:"MULTIPLE_CONFIRMATIONS_BONUS" envDefault:"10"`
	DefaultRiskReward          float64 `env:"DEFAULT_RISK_REWARD" envDefault:"2.5"`
	EntrySwingLookback         int     `env:"ENTRY_SWING_LOOKBACK" envDefault:"2"`

	// Postgres
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"signals"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Telegram
	TelegramToken   string `env:"TELEGRAM_TOKEN" envDefault:"-"`
	TelegramChatID  int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`
	TelegramEnabled bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`

	// Signal validation
	ValidatorEnabled bool   `env:"VALIDATOR_ENABLED" envDefault:"false"`
	ValidatorModel   string `env:"VALIDATOR_MODEL" envDefault:"gpt-4"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY" envDefault:"-"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.TwelveAPIKey = os.Getenv("TWELVE_API_KEY")
	cfg.APIBaseURL = getEnvWithDefault("API_BASE_URL", "https://api.twelvedata.com")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.CandleCount = getEnvIntWithDefault("CANDLE_COUNT", 100)

	cfg.ScanInterval = getEnvDurationWithDefault("SCAN_INTERVAL", 15*time.Minute)
	cfg.SignalCooldown = getEnvDurationWithDefault("SIGNAL_COOLDOWN", 2*time.Hour)
	cfg.SignalExpiry = getEnvDurationWithDefault("SIGNAL_EXPIRY", 4*time.Hour)
	cfg.MinConfidence = getEnvIntWithDefault("MIN_CONFIDENCE", 60)
	cfg.WatchlistMinConfidence = getEnvIntWithDefault("WATCHLIST_MIN_CONFIDENCE", 40)
	cfg.MaxSignalsPerCycle = getEnvIntWithDefault("MAX_SIGNALS_PER_CYCLE", 3)
	cfg.MinRiskReward = getEnvFloatWithDefault("MIN_RISK_REWARD", 1.5)

	cfg.CHoCHConfidence = getEnvIntWithDefault("CHOCH_CONFIDENCE", 60)
	cfg.FlipConfidence = getEnvIntWithDefault("FLIP_CONFIDENCE", 55)
	cfg.ContinuationConfidence = getEnvIntWithDefault("CONTINUATION_CONFIDENCE", 50)
	cfg.StrongZoneBonus = getEnvIntWithDefault("STRONG_ZONE_BONUS", 10)
	cfg.MultipleConfirmationsBonus = getEnvIntWithDefault("MULTIPLE_CONFIRMATIONS_BONUS", 10)
	cfg.DefaultRiskReward = getEnvFloatWithDefault("DEFAULT_RISK_REWARD", 2.5)
	cfg.EntrySwingLookback = getEnvIntWithDefault("ENTRY_SWING_LOOKBACK", 2)

	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvIntWithDefault("DB_PORT", 5432)
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = getEnvWithDefault("DB_PASSWORD", "postgres")
	cfg.DBName = getEnvWithDefault("DB_NAME", "signals")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)
	cfg.TelegramEnabled = getEnvBoolWithDefault("TELEGRAM_ENABLED", false)

	cfg.ValidatorEnabled = getEnvBoolWithDefault("VALIDATOR_ENABLED", false)
	cfg.ValidatorModel = getEnvWithDefault("VALIDATOR_MODEL", "gpt-4")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
