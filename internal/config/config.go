// Package config loads server settings from a .env file, an optional YAML
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultSessionSecret = "realty-dev-session-secret"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// SMTP holds outgoing mail settings. An empty Host disables mail.
type SMTP struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

// Config holds server configuration.
type Config struct {
	Port             int           `yaml:"port"`
	DatabaseURL      string        `yaml:"database_url"`
	SessionSecret    string        `yaml:"session_secret"`
	Env              string        `yaml:"env"`
	AdminUsername    string        `yaml:"admin_username"`
	AdminPassword    string        `yaml:"admin_password"`
	SessionTTL       time.Duration `yaml:"session_ttl"`
	StaticDir        string        `yaml:"static_dir"`
	Store            string        `yaml:"store"`
	LocalStorePath   string        `yaml:"local_store_path"`
	LocalStorePrefix string        `yaml:"local_store_prefix"`
	RedisAddr        string        `yaml:"redis_addr"`
	RedisPassword    string        `yaml:"redis_password"`
	StrictReview     bool          `yaml:"strict_review"`
	SMTP             SMTP          `yaml:"smtp"`
	NotifyEmail      string        `yaml:"notify_email"`
	SiteURL          string        `yaml:"site_url"`
	TrustProxy       bool          `yaml:"trust_proxy"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:             5000,
		SessionSecret:    defaultSessionSecret,
		Env:              "development",
		AdminUsername:    defaultAdminUsername,
		AdminPassword:    defaultAdminPassword,
		SessionTTL:       time.Hour,
		StaticDir:        "dist/public",
		Store:            "sql",
		LocalStorePath:   "realty-local.json",
		LocalStorePrefix: "realty_",
		SMTP:             SMTP{Port: "587"},
	}
}

// Load reads .env from the working directory if present, then the YAML file
// at path if path is not empty, then the environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("SESSION_SECRET", &c.SessionSecret)
	setString("NODE_ENV", &c.Env)
	setString("APP_ENV", &c.Env)
	setString("ADMIN_USERNAME", &c.AdminUsername)
	setString("ADMIN_PASSWORD", &c.AdminPassword)
	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	setString("STATIC_DIR", &c.StaticDir)
	setString("STORE", &c.Store)
	setString("LOCAL_STORE_PATH", &c.LocalStorePath)
	setString("LOCAL_STORE_PREFIX", &c.LocalStorePrefix)
	setString("REDIS_ADDR", &c.RedisAddr)
	setString("REDIS_PASSWORD", &c.RedisPassword)
	if v := getenv("STRICT_REVIEW"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_REVIEW: %w", err)
		}
		c.StrictReview = strict
	}
	setString("SMTP_HOST", &c.SMTP.Host)
	setString("SMTP_PORT", &c.SMTP.Port)
	setString("SMTP_USER", &c.SMTP.User)
	setString("SMTP_PASS", &c.SMTP.Pass)
	setString("SMTP_FROM", &c.SMTP.From)
	setString("NOTIFY_EMAIL", &c.NotifyEmail)
	setString("SITE_URL", &c.SiteURL)
	if v := getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.TrustProxy = trust
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Store != "sql" && c.Store != "local" {
		return fmt.Errorf("store must be sql or local, got %q", c.Store)
	}
	if c.AdminUsername == "" || c.AdminPassword == "" {
		return fmt.Errorf("admin username and password are required")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BaseURL returns the public site address used in notification links.
func (c Config) BaseURL() string {
	if c.SiteURL != "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}

// Warnings lists settings left at insecure defaults.
func (c Config) Warnings() []string {
	var w []string
	if c.SessionSecret == defaultSessionSecret {
		w = append(w, "SESSION_SECRET not set, using a built-in development secret")
	}
	if c.AdminPassword == defaultAdminPassword {
		w = append(w, "ADMIN_PASSWORD not set, using the default admin password")
	}
	if c.Store == "sql" && c.DatabaseURL == "" {
		w = append(w, "DATABASE_URL not set, falling back to local SQLite")
	}
	return w
}
