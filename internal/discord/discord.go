// Package discord runs the slash command bot: it registers the command
// table, dispatches interactions to handlers and formats Clash of Clans
// lookups and AI answers as embeds.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/clashbot/internal/interaction"
	"go.uber.org/zap"
)

const (
	defaultMemberCount = 10
	maxMemberCount     = 50
)

var minMemberCount = 1.0

// Command definitions
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:        "help",
		Description: "List the available commands",
	},
	{
		Name:        "clan",
		Description: "Show a clan's profile",
		Options: []*discordgo.ApplicationCommandOption{
			tagOption("Clan tag (e.g., '#2PP')"),
		},
	},
	{
		Name:        "player",
		Description: "Show a player's profile",
		Options: []*discordgo.ApplicationCommandOption{
			tagOption("Player tag (e.g., '#YL0Q')"),
		},
	},
	{
		Name:        "war",
		Description: "Show a clan's current war",
		Options: []*discordgo.ApplicationCommandOption{
			tagOption("Clan tag (e.g., '#2PP')"),
		},
	},
	{
		Name:        "members",
		Description: "List a clan's top members by trophies",
		Options: []*discordgo.ApplicationCommandOption{
			tagOption("Clan tag (e.g., '#2PP')"),
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: fmt.Sprintf("Number of members to show (1-%d, default: %d)", maxMemberCount, defaultMemberCount),
				Required:    false,
				MinValue:    &minMemberCount,
				MaxValue:    maxMemberCount,
			},
		},
	},
	{
		Name:        "ask",
		Description: "Ask the AI assistant a question",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prompt",
				Description: "Your question",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "private",
				Description: "Only you can see the answer",
				Required:    false,
			},
		},
	},
}

func tagOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tag",
		Description: description,
		Required:    true,
	}
}

// NewBot creates a new Discord bot. A nil assistant disables /ask.
func NewBot(config Config, clashService ClashService, assistant Assistant, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot := &Bot{
		Session:         session,
		Config:          config,
		Clash:           clashService,
		AI:              assistant,
		Guard:           interaction.NewGuard(logger),
		Logger:          logger.Named("discord"),
		CommandHandlers: make(map[string]CommandHandler),
		latency:         session.HeartbeatLatency,
	}

	// Set up command handlers
	bot.CommandHandlers["ping"] = bot.handlePingCommand
	bot.CommandHandlers["help"] = bot.handleHelpCommand
	bot.CommandHandlers["clan"] = bot.handleClanCommand
	bot.CommandHandlers["player"] = bot.handlePlayerCommand
	bot.CommandHandlers["war"] = bot.handleWarCommand
	bot.CommandHandlers["members"] = bot.handleMembersCommand
	if assistant != nil {
		bot.CommandHandlers["ask"] = bot.handleAskCommand
	}

	return bot, nil
}

// Start starts the Discord bot
func (b *Bot) Start() error {
	user, err := b.Session.User("@me")
	if err != nil {
		return fmt.Errorf("error getting bot user: %w", err)
	}
	b.BotUserID = user.ID

	b.Session.AddHandler(b.interactionHandler)

	// Open a websocket connection to Discord
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}

	registeredCommands, err := b.registerCommands()
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}
	b.Commands = registeredCommands

	b.Logger.Info("bot is running",
		zap.String("user", user.Username),
		zap.Int("commands", len(registeredCommands)),
		zap.String("guild_id", b.Config.GuildID))
	return nil
}

// Stop closes the session, removing the registered commands first if
// configured to do so.
func (b *Bot) Stop() error {
	if b.Config.RemoveCommandsOnExit {
		b.Logger.Info("removing commands", zap.Int("count", len(b.Commands)))
		for _, cmd := range b.Commands {
			if err := b.Session.ApplicationCommandDelete(b.BotUserID, b.Config.GuildID, cmd.ID); err != nil {
				b.Logger.Warn("error removing command", zap.String("command", cmd.Name), zap.Error(err))
			}
		}
	}

	return b.Session.Close()
}

// registerCommands registers every command that has a handler. Commands are
// guild scoped when a guild ID is configured, global otherwise.
func (b *Bot) registerCommands() ([]*discordgo.ApplicationCommand, error) {
	var registeredCommands []*discordgo.ApplicationCommand

	for _, cmd := range b.definitions() {
		registered, err := b.Session.ApplicationCommandCreate(b.BotUserID, b.Config.GuildID, cmd)
		if err != nil {
			return nil, fmt.Errorf("error creating command '%s': %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
	}

	return registeredCommands, nil
}

// definitions returns the command definitions this bot can serve.
func (b *Bot) definitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range commands {
		if _, ok := b.CommandHandlers[cmd.Name]; ok {
			defs = append(defs, cmd)
		}
	}
	return defs
}

// interactionHandler handles Discord interaction events
func (b *Bot) interactionHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	h := interaction.NewSessionHandle(s, i.Interaction)
	b.Dispatch(context.Background(), h, i.ApplicationCommandData())
}

// Dispatch runs the handler registered for the command. Unknown commands get
// an ephemeral notice. If a handler fails to answer, one ephemeral apology
// is attempted.
func (b *Bot) Dispatch(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) {
	logger := b.Logger.With(zap.String("command", data.Name))

	handler, ok := b.CommandHandlers[data.Name]
	if !ok {
		logger.Warn("unknown command")
		handler = b.handleUnknownCommand
	}

	start := time.Now()
	if err := handler(ctx, h, data); err != nil {
		logger.Error("command failed", zap.Error(err))
		b.apologize(ctx, h, logger)
		return
	}
	logger.Debug("command handled", zap.Duration("took", time.Since(start)))
}

const apologyMessage = "Sorry, something went wrong while handling that command. Please try again."

func (b *Bot) apologize(ctx context.Context, h interaction.Handle, logger *zap.Logger) {
	if _, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
		Ephemeral: true,
		Content:   apologyMessage,
	}); err != nil {
		logger.Error("error sending apology", zap.Error(err))
	}
}

// commandContext bounds a remote lookup by the configured command timeout.
func (b *Bot) commandContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.Config.CommandTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.Config.CommandTimeout)
}
