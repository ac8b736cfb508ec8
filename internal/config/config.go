// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration of the web server.
type Config struct {
	Addr string `env:"KONSTRUKSI_WEB_ADDR"`
	// Port is the platform-provided port, used when Addr is empty.
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"KONSTRUKSI_WEB_ENV" envDefault:"dev"`
	// Dev reparses templates on every request.
	Dev       bool   `env:"KONSTRUKSI_WEB_DEV"`
	AssetsDir string `env:"KONSTRUKSI_WEB_ASSETS_DIR" envDefault:"public/assets"`
	// TemplatesDir overrides the embedded templates when set.
	TemplatesDir string `env:"KONSTRUKSI_WEB_TEMPLATES_DIR"`
	// DBPath selects the sqlite catalog; empty keeps the catalog in memory.
	DBPath       string `env:"KONSTRUKSI_WEB_DB_PATH"`
	SigningKey   string `env:"KONSTRUKSI_WEB_SESSION_SIGNING_KEY"`
	BaseURL      string `env:"KONSTRUKSI_WEB_BASE_URL" envDefault:"http://localhost:8080"`
	AssetVersion string `env:"KONSTRUKSI_WEB_ASSET_VERSION" envDefault:"dev"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	// AdminLoginPath is where unauthenticated admin requests are sent.
	AdminLoginPath string `env:"KONSTRUKSI_WEB_ADMIN_LOGIN_PATH" envDefault:"/admin/login"`

	Analytics Analytics
}

// Analytics is the client instrumentation surfaced to templates.
type Analytics struct {
	GA4MeasurementID string `env:"KONSTRUKSI_WEB_GA_MEASUREMENT_ID"`
	GTMContainerID   string `env:"KONSTRUKSI_WEB_GTM_CONTAINER_ID"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg, nil
}

// ListenAddr returns Addr, or ":"+Port when Addr is unset.
func (c Config) ListenAddr() string {
	if a := strings.TrimSpace(c.Addr); a != "" {
		return a
	}
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Production reports whether the server runs in the prod environment.
func (c Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}
