package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken     string `env:"DISCORD_TOKEN"`
	AdminUserID      int64  `env:"ADMIN_USER_ID"`
	CatchSourceBotID int64  `env:"CATCH_SOURCE_BOT_ID" envDefault:"716390085896962058"` // Poketwo

	// Command surface
	CommandPrefix   string `env:"COMMAND_PREFIX" envDefault:"D"`
	PayConfirmToken string `env:"PAY_CONFIRM_TOKEN" envDefault:"-payed"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Withdrawal workflow
	PendingWithdrawalTTL time.Duration `env:"PENDING_WITHDRAWAL_TTL" envDefault:"5m"`

	// Read-only dashboard API
	DashboardAddr string `env:"DASHBOARD_ADDR" envDefault:":8080"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.AdminUserID == 0 {
			return nil, fmt.Errorf("ADMIN_USER_ID is required")
		}
	}

	return config, nil
}
