package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hunterjsb/clashbot/internal/ai"
	"github.com/hunterjsb/clashbot/internal/clash"
	"github.com/hunterjsb/clashbot/internal/config"
	"github.com/hunterjsb/clashbot/internal/discord"
	"github.com/hunterjsb/clashbot/internal/logging"
	"github.com/hunterjsb/clashbot/internal/uptime"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const botName = "clashbot"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	botCmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Discord bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscordBot(envFile)
		},
	}

	root := &cobra.Command{
		Use:          botName,
		Short:        "Clash of Clans Discord bot",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         botCmd.RunE,
		Version:      version,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file")

	root.AddCommand(
		botCmd,
		&cobra.Command{
			Use:   "clan <tag>",
			Short: "Print a clan profile as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLookup(cmd.Context(), envFile, func(ctx context.Context, c *clash.Client) (any, error) {
					return c.GetClan(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "player <tag>",
			Short: "Print a player profile as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLookup(cmd.Context(), envFile, func(ctx context.Context, c *clash.Client) (any, error) {
					return c.GetPlayer(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", botName, version)
			},
		},
	)
	return root
}

// loadConfig loads the .env file and environment and builds the logger.
func loadConfig(envFile string) (*config.Config, *zap.Logger, error) {
	dotenvErr := config.LoadDotenv(envFile)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Must(cfg.LogLevel, cfg.LogFormat)

	if errors.Is(dotenvErr, config.ErrNoDotenv) {
		logger.Warn("no .env file, continuing with environment variables from system", zap.String("path", envFile))
	} else if dotenvErr != nil {
		return nil, nil, dotenvErr
	}
	return cfg, logger, nil
}

func newClashClient(cfg *config.Config, logger *zap.Logger, cache *clash.Cache) *clash.Client {
	return clash.NewClient(cfg.ClashToken,
		clash.WithBaseURL(cfg.ClashBaseURL),
		clash.WithCache(cache),
		clash.WithLogger(logger.Named("clash")))
}

func runDiscordBot(envFile string) error {
	cfg, logger, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cache := clash.NewDefaultCache()
	stopJanitor := cache.StartJanitor(5 * time.Minute)

	var assistant discord.Assistant
	if cfg.AIEnabled() {
		assistant = ai.NewClient(cfg.OpenAIToken, ai.Options{
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.OpenAIBaseURL,
		})
	} else {
		logger.Info("OPENAI_API_KEY not set, /ask is disabled")
	}

	bot, err := discord.NewBot(discord.Config{
		Token:                cfg.DiscordToken,
		GuildID:              cfg.GuildID,
		RemoveCommandsOnExit: cfg.RemoveCommandsOnExit,
		CommandTimeout:       cfg.CommandTimeout,
	}, newClashClient(cfg, logger, cache), assistant, logger)
	if err != nil {
		return err
	}

	if err := bot.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if cfg.HTTPAddr != "" {
		server := uptime.NewServer(botName, cfg.HTTPAddr, logger)
		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Error("uptime server exited", zap.Error(err))
			}
		}()
	}

	discord.SetupCloseHandler(logger, func() error {
		cancel()
		stopJanitor()
		return bot.Stop()
	})

	logger.Info("bot is now running, press CTRL-C to exit")
	select {}
}

func runLookup(ctx context.Context, envFile string, lookup func(context.Context, *clash.Client) (any, error)) error {
	cfg, logger, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := cfg.ValidateClash(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.CommandTimeout)
	defer cancel()

	result, err := lookup(ctx, newClashClient(cfg, logger, nil))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
