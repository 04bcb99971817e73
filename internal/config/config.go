package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the bot configuration, read from the environment.
type Config struct {
	// Discord
	DiscordToken         string        `env:"DISCORD_TOKEN"`
	GuildID              string        `env:"GUILD_ID"`
	RemoveCommandsOnExit bool          `env:"REMOVE_COMMANDS_ON_EXIT" envDefault:"false"`
	CommandTimeout       time.Duration `env:"COMMAND_TIMEOUT" envDefault:"10s"`

	// Clash of Clans API
	ClashToken   string `env:"CLASH_API_TOKEN"`
	ClashBaseURL string `env:"CLASH_API_URL" envDefault:"https://api.clashofclans.com/v1"`

	// OpenAI compatible chat completion API
	OpenAIToken   string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL"`
	OpenAIModel   string  `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	MaxTokens     int     `env:"MAX_TOKENS" envDefault:"150"`
	Temperature   float64 `env:"TEMPERATURE" envDefault:"0.7"`

	// Uptime endpoint; empty disables it
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// LoadDotenv loads the given .env files (".env" when none are given) into the
// process environment without overriding variables that are already set.
// A missing file is reported through ErrNoDotenv so callers can warn and
// continue with the system environment.
func LoadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrNoDotenv, err)
		}
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// ErrNoDotenv is returned by LoadDotenv when a .env file does not exist.
var ErrNoDotenv = errors.New("no .env file")

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings required to run the Discord bot.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if err := c.ValidateClash(); err != nil {
		return err
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must be positive, got %s", c.CommandTimeout)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// ValidateClash checks the settings required for Clash of Clans lookups.
func (c *Config) ValidateClash() error {
	if c.ClashToken == "" {
		return fmt.Errorf("CLASH_API_TOKEN is required")
	}
	return nil
}

// AIEnabled reports whether the /ask command can be served.
func (c *Config) AIEnabled() bool {
	return c.OpenAIToken != ""
}
