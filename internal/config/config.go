package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	App        AppConfig
	Terminal   TerminalConfig
	Attendance AttendanceConfig
	Vacation   VacationConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// IdempotencyTTL is how long a terminal response can be replayed.
	IdempotencyTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
	SecureCookie      bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// TerminalConfig configures the biometric terminal surface.
type TerminalConfig struct {
	// DeviceKeys maps device id to shared key, parsed from "id:key,id2:key2".
	DeviceKeys map[string]string
	RateLimit  float64
	Burst      int
}

type AttendanceConfig struct {
	Timezone     string
	MaxRangeDays int
}

type VacationConfig struct {
	RecalcInterval time.Duration
	Parallelism    int
}

// Load reads the environment, after applying a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var errs []error
	intEnv := func(key, fallback string) int {
		v, err := strconv.Atoi(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	durationEnv := func(key, fallback string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}
	boolEnv := func(key, fallback string) bool {
		v, err := strconv.ParseBool(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
		return v
	}

	config := &Config{}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            intEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "hr_admin"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(intEnv("DB_MAX_CONNS", "25")),
		MinConns:        int32(intEnv("DB_MIN_CONNS", "5")),
		MaxConnLifetime: durationEnv("DB_MAX_CONN_LIFETIME", "1h"),
	}

	// Redis configuration
	config.Redis = RedisConfig{
		Addr:           getEnv("REDIS_ADDR", "localhost:6379"),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             intEnv("REDIS_DB", "0"),
		IdempotencyTTL: durationEnv("IDEMPOTENCY_TTL", "24h"),
	}

	// Application configuration
	config.App = AppConfig{
		Name:           getEnv("APP_NAME", "hr-admin-backend"),
		Version:        getEnv("APP_VERSION", "dev"),
		Port:           intEnv("APP_PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration:  durationEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		RefreshExpiration: durationEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		SecureCookie:      boolEnv("JWT_SECURE_COOKIE", "false"),
	}

	// Terminal configuration
	deviceKeys, err := parseDeviceKeys(getEnv("TERMINAL_DEVICE_KEYS", ""))
	if err != nil {
		errs = append(errs, err)
	}
	rateLimit, err := strconv.ParseFloat(getEnv("TERMINAL_RATE_LIMIT", "5"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid TERMINAL_RATE_LIMIT: %w", err))
	}
	config.Terminal = TerminalConfig{
		DeviceKeys: deviceKeys,
		RateLimit:  rateLimit,
		Burst:      intEnv("TERMINAL_BURST", "10"),
	}

	config.Attendance = AttendanceConfig{
		Timezone:     getEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		MaxRangeDays: intEnv("ATTENDANCE_MAX_RANGE_DAYS", "366"),
	}

	config.Vacation = VacationConfig{
		RecalcInterval: durationEnv("VACATION_RECALC_INTERVAL", "24h"),
		Parallelism:    intEnv("VACATION_RECALC_PARALLELISM", "4"),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return fmt.Errorf("JWT expiration times must be positive")
	}
	if c.Attendance.MaxRangeDays < 1 {
		return fmt.Errorf("ATTENDANCE_MAX_RANGE_DAYS must be at least 1")
	}
	if c.Terminal.RateLimit <= 0 || c.Terminal.Burst < 1 {
		return fmt.Errorf("TERMINAL_RATE_LIMIT and TERMINAL_BURST must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the attendance time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Attendance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func parseDeviceKeys(raw string) (map[string]string, error) {
	keys := make(map[string]string)
	for _, pair := range getSlice(raw) {
		id, key, ok := strings.Cut(pair, ":")
		id, key = strings.TrimSpace(id), strings.TrimSpace(key)
		if !ok || id == "" || key == "" {
			return nil, fmt.Errorf("invalid TERMINAL_DEVICE_KEYS entry %q: want id:key", pair)
		}
		keys[id] = key
	}
	return keys, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	return getSlice(getEnv(env, ""))
}

func getSlice(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
