// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables always win.
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

type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	CORS     CORSConfig
	RBAC     RBACConfig
	Worker   WorkerConfig

	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	MaxRetries int
}

// DSN returns the libpq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// RedisConfig is optional; an empty Addr disables caching, the blacklist
// cache and idempotency keys.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

// KafkaConfig is optional; an empty Broker disables event publishing.
type KafkaConfig struct {
	Broker     string
	Topic      string
	MaxRetries int
	// PublishTimeout caps how long a write request waits on the broker.
	PublishTimeout time.Duration
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

type RBACConfig struct {
	// PolicyPath points to a casbin CSV policy. Empty uses the built-in policy.
	PolicyPath string
}

// RateLimit is a token bucket: PerSecond refill, Burst capacity.
type RateLimit struct {
	PerSecond float64
	Burst     int
}

type RateLimitConfig struct {
	CreateUser     RateLimit
	Login          RateLimit
	Logout         RateLimit
	TokenRefresh   RateLimit
	EmployeeRead   RateLimit
	EmployeeWrite  RateLimit
	EmployeeDelete RateLimit
}

func DefaultRateLimits() RateLimitConfig {
	return RateLimitConfig{
		CreateUser:     RateLimit{PerSecond: 0.1, Burst: 5},
		Login:          RateLimit{PerSecond: 0.2, Burst: 10},
		Logout:         RateLimit{PerSecond: 2, Burst: 5},
		TokenRefresh:   RateLimit{PerSecond: 1, Burst: 20},
		EmployeeRead:   RateLimit{PerSecond: 5, Burst: 20},
		EmployeeWrite:  RateLimit{PerSecond: 1, Burst: 5},
		EmployeeDelete: RateLimit{PerSecond: 0.5, Burst: 2},
	}
}

type WorkerConfig struct {
	PurgeInterval time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	limits := DefaultRateLimits()

	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			GinMode:      getEnv("GIN_MODE", "debug"),
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       getEnv("DB_NAME", "go_staff"),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxRetries: getInt("DB_MAX_RETRIES", 5),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         getInt("REDIS_DB", 0),
			MaxRetries: getInt("REDIS_MAX_RETRIES", 5),
		},
		Kafka: KafkaConfig{
			Broker:     os.Getenv("KAFKA_BROKER"),
			Topic:      getEnv("KAFKA_EMPLOYEE_TOPIC", "staff.employee.lifecycle.v1"),
			MaxRetries: getInt("KAFKA_MAX_RETRIES", 5),

			PublishTimeout: getDuration("KAFKA_PUBLISH_TIMEOUT", 2*time.Second),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			Issuer:     getEnv("JWT_ISSUER", "go-staff"),
			AccessTTL:  getDuration("JWT_ACCESS_TTL", 5*time.Minute),
			RefreshTTL: getDuration("JWT_REFRESH_TTL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowOrigins: getList("CORS_ORIGIN", []string{"*"}),
		},
		RBAC: RBACConfig{
			PolicyPath: os.Getenv("RBAC_POLICY_PATH"),
		},
		Worker: WorkerConfig{
			PurgeInterval: getDuration("BLACKLIST_PURGE_INTERVAL", time.Hour),
		},
		// values are "<per second>:<burst>", e.g. RATE_LIMIT_LOGIN=0.2:10
		RateLimit: RateLimitConfig{
			CreateUser:     getRateLimit("RATE_LIMIT_CREATE_USER", limits.CreateUser),
			Login:          getRateLimit("RATE_LIMIT_LOGIN", limits.Login),
			Logout:         getRateLimit("RATE_LIMIT_LOGOUT", limits.Logout),
			TokenRefresh:   getRateLimit("RATE_LIMIT_TOKEN_REFRESH", limits.TokenRefresh),
			EmployeeRead:   getRateLimit("RATE_LIMIT_EMPLOYEE_READ", limits.EmployeeRead),
			EmployeeWrite:  getRateLimit("RATE_LIMIT_EMPLOYEE_WRITE", limits.EmployeeWrite),
			EmployeeDelete: getRateLimit("RATE_LIMIT_EMPLOYEE_DELETE", limits.EmployeeDelete),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT lifetimes must be positive")
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return errors.New("JWT_ACCESS_TTL must be shorter than JWT_REFRESH_TTL")
	}
	if c.Kafka.PublishTimeout <= 0 {
		return errors.New("KAFKA_PUBLISH_TIMEOUT must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getRateLimit(key string, fallback RateLimit) RateLimit {
	perSecond, burst, ok := strings.Cut(strings.TrimSpace(os.Getenv(key)), ":")
	if !ok {
		return fallback
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(perSecond), 64)
	if err != nil || r < 0 {
		return fallback
	}
	b, err := strconv.Atoi(strings.TrimSpace(burst))
	if err != nil || b < 1 {
		return fallback
	}
	return RateLimit{PerSecond: r, Burst: b}
}
