package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName       = "Lectoria"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultBcryptCost    = 10
	defaultShutdownDelay = 10 * time.Second

	sessionTTLEnvVar       = "SESSION_TTL"
	bcryptCostEnvVar       = "BCRYPT_COST"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded once at process
// start. Components receive it explicitly; there are no global lookups.
type Config struct {
	AppName     string
	AppEnv      string
	Port        string
	LogLevel    string
	DatabaseURL string
	RedisURL    string

	// JWTSecret signs session tokens. Rotating it invalidates every
	// outstanding session; there is no server-side revocation list.
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	// FrontendURL is the base for links embedded in outbound email.
	FrontendURL string

	SMTP SMTPConfig
	S3   S3Config

	ShutdownPeriod time.Duration
}

// SMTPConfig holds outbound mail settings. Empty Host disables SMTP delivery
// and the service falls back to the logging mailer.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// ContactInbox receives contact-form submissions.
	ContactInbox string
}

// S3Config holds object storage settings for avatar and lecture media.
// Endpoint is optional and supports MinIO-style deployments.
type S3Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Load reads configuration values from the environment. A local .env file is
// honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getEnv("APP_NAME", defaultAppName),
		AppEnv:      strings.ToLower(getEnv("APP_ENV", defaultAppEnv)),
		Port:        getEnv("PORT", defaultPort),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SessionTTL:  defaultSessionTTL,
		BcryptCost:  defaultBcryptCost,
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		SMTP: SMTPConfig{
			Host:         os.Getenv("SMTP_HOST"),
			Port:         getEnv("SMTP_PORT", "587"),
			Username:     os.Getenv("SMTP_USER"),
			Password:     os.Getenv("SMTP_PASS"),
			From:         os.Getenv("SMTP_FROM"),
			ContactInbox: os.Getenv("CONTACT_INBOX"),
		},
		S3: S3Config{
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		ShutdownPeriod: defaultShutdownDelay,
	}

	if v := os.Getenv(sessionTTLEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", sessionTTLEnvVar, err)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv(bcryptCostEnvVar); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", bcryptCostEnvVar, err)
		}
		cfg.BcryptCost = cost
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// CookieSecure reports whether session cookies must be HTTPS-only.
func (c Config) CookieSecure() bool {
	return !c.IsDev()
}

// CookieSameSite returns the SameSite attribute for session cookies. The
// production frontend is served cross-site, so None is required there.
func (c Config) CookieSameSite() string {
	if c.IsDev() {
		return "Lax"
	}
	return "None"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
