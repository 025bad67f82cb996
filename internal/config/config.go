// /internal/config/config.go
package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything deckhand reads from the environment. A .env file is
// honored when present, system environment variables win.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// Prefix triggers plain-message commands, e.g. "!help".
	Prefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	// Developers is the user-id allow-list for dev-only commands.
	Developers []string `env:"DEVELOPER_IDS" envSeparator:","`

	InitSlashCommands bool `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	LogFile  string `env:"LOG_FILE" envDefault:"logs/deckhand.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Worker counts for the command and audio domains. Most work is I/O
	// bound, a handful of workers each is plenty. Waiter dispatch is not
	// configurable: it runs on a single lane to keep event arrival order.
	CommandWorkers int `env:"COMMAND_WORKERS" envDefault:"4"`
	AudioWorkers   int `env:"AUDIO_WORKERS" envDefault:"2"`
}

// New loads the configuration from .env and the process environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// IsDeveloper reports whether the given user id is on the developer allow-list.
func (c *Config) IsDeveloper(userID string) bool {
	return slices.Contains(c.Developers, userID)
}
