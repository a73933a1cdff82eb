package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"alliance-srp/internal/core/payout"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	SRP      SRPConfig
	Cron     CronConfig
	Notify   NotifyConfig
	Cookie   CookieConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// RedisConfig holds redis configuration. Empty Address disables the review lock.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// SRPConfig holds the payout policy and submission rules
type SRPConfig struct {
	Policy       payout.Policy
	MinBaseValue decimal.Decimal
}

// CronConfig holds schedules for background jobs
type CronConfig struct {
	ShipClassRefresh string
	PayoutSummary    string
	TokenCleanup     string
}

// NotifyConfig holds webhook notification configuration
type NotifyConfig struct {
	WebhookURL string
}

// CookieConfig holds auth cookie settings
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		GetLogger().Warn(".env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	srp, err := loadSRPConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Redis:    loadRedisConfig(),
		SRP:      srp,
		Cron: CronConfig{
			ShipClassRefresh: getEnv("CRON_SHIPCLASS_REFRESH", "@every 1h"),
			PayoutSummary:    getEnv("CRON_PAYOUT_SUMMARY", "5 0 * * *"),
			TokenCleanup:     getEnv("CRON_TOKEN_CLEANUP", "@daily"),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("SRP_WEBHOOK_URL", ""),
		},
		Cookie: loadCookieConfig(appMode),
	}

	AppConfig = config
	ConfigureLogger(config)

	GetLogger().WithField("mode", appMode).Info("✅ Configuration loaded successfully")
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "alliance_srp"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Address:  getEnv("REDIS_ADDRESS", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// loadSRPConfig reads the payout policy. Unset values fall back to the default policy.
func loadSRPConfig() (SRPConfig, error) {
	policy := payout.DefaultPolicy()

	fields := []struct {
		env  string
		dest *decimal.Decimal
	}{
		{"SRP_SOLO_MULTIPLIER", &policy.SoloMultiplier},
		{"SRP_FLEET_MULTIPLIER", &policy.FleetMultiplier},
		{"SRP_FULL_RATE_MULTIPLIER", &policy.FullRateMultiplier},
		{"SRP_DEFAULT_CEILING", &policy.DefaultCeiling},
	}
	for _, f := range fields {
		v, err := getDecimalEnv(f.env, *f.dest)
		if err != nil {
			return SRPConfig{}, err
		}
		*f.dest = v
	}
	if err := policy.Validate(); err != nil {
		return SRPConfig{}, err
	}

	minValue, err := getDecimalEnv("SRP_MIN_BASE_VALUE", decimal.NewFromInt(1_000_000))
	if err != nil {
		return SRPConfig{}, err
	}

	return SRPConfig{Policy: policy, MinBaseValue: minValue}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://srp.alliance.example"
	}
	return origins
}

// RateLimitPerMinute returns the general API limit per IP (RATE_LIMIT_PER_MINUTE, default 100)
func (c *Config) RateLimitPerMinute() int {
	n, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "100"))
	if err != nil || n <= 0 {
		return 100
	}
	return n
}
