// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	DBPath        string `env:"CARDAPIO_DB_PATH" envDefault:"./data/cardapio.db"`
	SessionSecret string `env:"CARDAPIO_SESSION_SECRET,required"`
	ServerHost    string `env:"CARDAPIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CARDAPIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CARDAPIO_ENV" envDefault:"development"`
	LogLevel      string `env:"CARDAPIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"CARDAPIO_UPLOADS_DIR" envDefault:"./uploads"`
	ImageBucket   string `env:"CARDAPIO_IMAGE_BUCKET" envDefault:"menu_images"`
	BaseURL       string `env:"CARDAPIO_BASE_URL" envDefault:""`

	// Initial admin account, created only when the users table is empty.
	AdminEmail    string `env:"CARDAPIO_ADMIN_EMAIL"`
	AdminPassword string `env:"CARDAPIO_ADMIN_PASSWORD"`

	// Upload cleanup schedule (cron syntax). Empty disables the job.
	CleanupSchedule string `env:"CARDAPIO_CLEANUP_SCHEDULE" envDefault:"0 4 * * *"`
}

// IsDevelopment returns true if the application is running in development
// mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CARDAPIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	return cfg, nil
}
