package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	errInvalidPort    = errors.New("config: invalid PORT number")
	errInvalidBaseURL = errors.New("config: base URL must be an absolute http(s) URL")
	errInvalidTimeout = errors.New("config: BACKEND_TIMEOUT must be a positive duration")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port              string
	LogLevel          string
	BackendBase       string
	ProxyBase         string
	BackendTimeout    time.Duration
	CORSAllowedOrigin string
}

// Load reads configuration from .env files and environment variables with
// sensible defaults. Variables already set in the environment win over
// values from .env files.
func Load() (Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return Config{}, err
	}

	timeout, err := getEnvAsDuration("BACKEND_TIMEOUT", 120*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "ERROR"),
		BackendBase:       getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		ProxyBase:         getEnv("PROXY_BASE_URL", "http://localhost:5000"),
		BackendTimeout:    timeout,
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}

	return cfg, cfg.validate()
}

// LoadEnvFiles loads .env files in priority order: the file named by
// ENV_FILE if set (and nothing else), otherwise .env.local then .env.
// Missing files are ignored.
func LoadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("config: load %s: %w", name, err)
		}
	}
	return nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if err := ValidateBaseURL("BACKEND_BASE_URL", c.BackendBase); err != nil {
		return err
	}
	if err := ValidateBaseURL("PROXY_BASE_URL", c.ProxyBase); err != nil {
		return err
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errInvalidTimeout, c.BackendTimeout)
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http or https URL.
func ValidateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s=%q", errInvalidBaseURL, name, raw)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", errInvalidTimeout, key, s, err)
	}
	return v, nil
}
