package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	// DashboardOrigins lists host[:port] values allowed by CORS.
	DashboardOrigins []string

	DB       DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Worker   WorkerConfig
	Cache    CacheConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// TelegramConfig contains bot credentials. Customer notifications (delivery,
// promos) go through the customer bot; reports and alerts through the owner bot.
type TelegramConfig struct {
	BaseURL          string
	CustomerBotToken string
	OwnerBotToken    string
	OwnerBotUsername string
}

// StoreConfig holds locale-ish defaults applied to every store.
type StoreConfig struct {
	PhoneCountryCode string
	CurrencySymbol   string
	OverdueDays      int
	OrderListLimit   int
	Timezone         *time.Location
}

// WorkerConfig contains schedule configuration for background workers.
type WorkerConfig struct {
	LowStockAlertInterval time.Duration
	SchedulerTick         time.Duration
	DailyReportHour       int
	DailyReportMinute     int
	CreditReminderHour    int
	CreditReminderMinute  int
}

// CacheConfig contains TTLs for Redis-backed caches.
type CacheConfig struct {
	StatsTTL time.Duration
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.DashboardOrigins = splitList(getEnv("DASHBOARD_ORIGINS", "localhost:3000,127.0.0.1:3000"))

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Telegram
	cfg.Telegram = TelegramConfig{
		BaseURL:          getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		CustomerBotToken: getEnv("CUSTOMER_BOT_TOKEN", ""),
		OwnerBotToken:    getEnv("OWNER_BOT_TOKEN", ""),
		OwnerBotUsername: getEnv("OWNER_BOT_USERNAME", "@WarungOwnerBot"),
	}

	// Store defaults
	tzName := getEnv("STORE_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_TIMEZONE: %w", err)
	}
	cfg.Store = StoreConfig{
		PhoneCountryCode: getEnv("PHONE_COUNTRY_CODE", "+91"),
		CurrencySymbol:   getEnv("CURRENCY_SYMBOL", "₹"),
		OverdueDays:      getEnvInt("CREDIT_OVERDUE_DAYS", 7),
		OrderListLimit:   getEnvInt("ORDER_LIST_LIMIT", 50),
		Timezone:         loc,
	}

	// Workers
	if cfg.Worker.LowStockAlertInterval, err = parseDurationEnv("LOW_STOCK_ALERT_INTERVAL", "6h"); err != nil {
		return nil, fmt.Errorf("invalid LOW_STOCK_ALERT_INTERVAL: %w", err)
	}
	if cfg.Worker.SchedulerTick, err = parseDurationEnv("SCHEDULER_TICK", "1m"); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_TICK: %w", err)
	}
	cfg.Worker.DailyReportHour = getEnvInt("DAILY_REPORT_HOUR", 21)
	cfg.Worker.CreditReminderHour = getEnvInt("CREDIT_REMINDER_HOUR", 21)
	if !validHour(cfg.Worker.DailyReportHour) || !validHour(cfg.Worker.CreditReminderHour) {
		return nil, errors.New("DAILY_REPORT_HOUR and CREDIT_REMINDER_HOUR must be between 0 and 23")
	}
	cfg.Worker.DailyReportMinute = getEnvInt("DAILY_REPORT_MINUTE", 0)
	cfg.Worker.CreditReminderMinute = getEnvInt("CREDIT_REMINDER_MINUTE", 5)
	if !validMinute(cfg.Worker.DailyReportMinute) || !validMinute(cfg.Worker.CreditReminderMinute) {
		return nil, errors.New("DAILY_REPORT_MINUTE and CREDIT_REMINDER_MINUTE must be between 0 and 59")
	}
	report := cfg.Worker.DailyReportHour*60 + cfg.Worker.DailyReportMinute
	reminder := cfg.Worker.CreditReminderHour*60 + cfg.Worker.CreditReminderMinute
	if reminder <= report {
		return nil, errors.New("credit reminder must be scheduled after the daily report")
	}

	// Caches and tokens
	if cfg.Cache.StatsTTL, err = parseDurationEnv("STATS_CACHE_TTL", "15s"); err != nil {
		return nil, fmt.Errorf("invalid STATS_CACHE_TTL: %w", err)
	}
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}

func validMinute(m int) bool {
	return m >= 0 && m <= 59
}
