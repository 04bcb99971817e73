package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/clashbot/internal/clash"
	"github.com/hunterjsb/clashbot/internal/interaction"
	"go.uber.org/zap"
)

// Bot represents the Discord bot
type Bot struct {
	Session         *discordgo.Session
	Config          Config
	Clash           ClashService
	AI              Assistant
	Guard           *interaction.Guard
	Logger          *zap.Logger
	BotUserID       string
	Commands        []*discordgo.ApplicationCommand
	CommandHandlers map[string]CommandHandler

	// latency reports the gateway heartbeat round trip for /ping.
	latency func() time.Duration
}

// Config holds Discord bot configuration
type Config struct {
	Token                string
	GuildID              string
	RemoveCommandsOnExit bool
	// CommandTimeout bounds each remote lookup made by a command.
	CommandTimeout time.Duration
}

// CommandHandler runs one slash command. A returned error means the
// interaction could not be answered at all.
type CommandHandler func(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error

// ClashService is the part of the Clash of Clans client used by commands.
type ClashService interface {
	GetClan(ctx context.Context, tag string) (*clash.Clan, error)
	GetClanMembers(ctx context.Context, tag string) ([]clash.ClanMember, error)
	GetPlayer(ctx context.Context, tag string) (*clash.Player, error)
	GetCurrentWar(ctx context.Context, tag string) (*clash.War, error)
}

// Assistant answers /ask prompts.
type Assistant interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}
