package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/clashbot/internal/clash"
	"github.com/hunterjsb/clashbot/internal/interaction"
	"go.uber.org/zap"
)

// handlePingCommand handles the /ping command
func (b *Bot) handlePingCommand(ctx context.Context, h interaction.Handle, _ discordgo.ApplicationCommandInteractionData) error {
	content := "Pong!"
	if b.latency != nil {
		content = fmt.Sprintf("Pong! Gateway latency: %s", b.latency().Round(time.Millisecond))
	}

	_, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{Ephemeral: true, Content: content})
	return err
}

// handleHelpCommand handles the /help command
func (b *Bot) handleHelpCommand(ctx context.Context, h interaction.Handle, _ discordgo.ApplicationCommandInteractionData) error {
	_, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
		Ephemeral: true,
		Embeds:    []*discordgo.MessageEmbed{formatHelpEmbed(b.definitions())},
	})
	return err
}

func (b *Bot) handleUnknownCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	_, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
		Ephemeral: true,
		Embeds: []*discordgo.MessageEmbed{
			errorEmbed("Unknown Command", fmt.Sprintf("`/%s` is not a command I know. Try `/help`.", data.Name)),
		},
	})
	return err
}

// handleClanCommand handles the /clan command
func (b *Bot) handleClanCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	tag, ok, err := b.beginTagCommand(ctx, h, data)
	if !ok {
		return err
	}

	callCtx, cancel := b.commandContext(ctx)
	defer cancel()

	clan, err := b.Clash.GetClan(callCtx, tag)
	if err != nil {
		return b.sendLookupError(ctx, h, "Clan", tag, err)
	}

	return b.sendEmbeds(ctx, h, formatClanEmbed(clan))
}

// handlePlayerCommand handles the /player command
func (b *Bot) handlePlayerCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	tag, ok, err := b.beginTagCommand(ctx, h, data)
	if !ok {
		return err
	}

	callCtx, cancel := b.commandContext(ctx)
	defer cancel()

	player, err := b.Clash.GetPlayer(callCtx, tag)
	if err != nil {
		return b.sendLookupError(ctx, h, "Player", tag, err)
	}

	return b.sendEmbeds(ctx, h, formatPlayerEmbed(player))
}

// handleWarCommand handles the /war command
func (b *Bot) handleWarCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	tag, ok, err := b.beginTagCommand(ctx, h, data)
	if !ok {
		return err
	}

	callCtx, cancel := b.commandContext(ctx)
	defer cancel()

	war, err := b.Clash.GetCurrentWar(callCtx, tag)
	switch {
	case clash.IsPrivateWarLog(err):
		return b.sendEmbeds(ctx, h, warningEmbed("War Log Private",
			fmt.Sprintf("The war log of `%s` is private, so its current war cannot be shown.", tag)))
	case err != nil:
		return b.sendLookupError(ctx, h, "Clan", tag, err)
	case war.State == clash.WarStateNotInWar || war.State == "":
		return b.sendEmbeds(ctx, h, warningEmbed("Not In War",
			fmt.Sprintf("`%s` is not currently in a war.", tag)))
	}

	return b.sendEmbeds(ctx, h, formatWarEmbed(war))
}

// handleMembersCommand handles the /members command
func (b *Bot) handleMembersCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	count := ParseOptions(data.Options).Int("count", defaultMemberCount)
	if count < 1 {
		count = 1
	}
	if count > maxMemberCount {
		count = maxMemberCount
	}

	tag, ok, err := b.beginTagCommand(ctx, h, data)
	if !ok {
		return err
	}

	callCtx, cancel := b.commandContext(ctx)
	defer cancel()

	members, err := b.Clash.GetClanMembers(callCtx, tag)
	if err != nil {
		return b.sendLookupError(ctx, h, "Clan", tag, err)
	}

	return b.sendEmbeds(ctx, h, formatMembersEmbed(tag, topMembers(members, count)))
}

// handleAskCommand handles the /ask command
func (b *Bot) handleAskCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) error {
	opts := ParseOptions(data.Options)
	prompt := strings.TrimSpace(opts.String("prompt"))
	private := opts.Bool("private")

	if b.AI == nil || prompt == "" {
		description := "Prompt is required"
		if b.AI == nil {
			description = "The AI assistant is not configured on this bot."
		}
		_, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
			Ephemeral: true,
			Embeds:    []*discordgo.MessageEmbed{errorEmbed("Invalid Input", description)},
		})
		return err
	}

	if ok, err := b.Guard.Defer(ctx, h, interaction.Options{Ephemeral: private}); !ok {
		return err
	}

	callCtx, cancel := b.commandContext(ctx)
	defer cancel()

	response, err := b.AI.GenerateResponse(callCtx, prompt)
	if err != nil {
		b.Logger.Warn("error generating response", zap.Error(err))
		return b.sendError(ctx, h, "AI Error", "Sorry, I couldn't process your request. Please try again later.")
	}

	// Discord caps a message at 6000 embed characters, so every part after
	// the first goes out as its own follow-up.
	embeds := formatAnswerEmbeds(response)
	if err := b.sendEmbeds(ctx, h, embeds[0]); err != nil {
		return err
	}
	for _, embed := range embeds[1:] {
		if _, err := b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
			Ephemeral: private,
			Embeds:    []*discordgo.MessageEmbed{embed},
		}); err != nil {
			return err
		}
	}
	return nil
}

// beginTagCommand validates the tag option and defers the reply. When ok is
// false the command must stop and return err.
func (b *Bot) beginTagCommand(ctx context.Context, h interaction.Handle, data discordgo.ApplicationCommandInteractionData) (tag string, ok bool, err error) {
	raw := ParseOptions(data.Options).String("tag")
	tag, err = clash.NormalizeTag(raw)
	if err != nil {
		_, err = b.Guard.ReplyOrFollow(ctx, h, interaction.Options{
			Ephemeral: true,
			Embeds: []*discordgo.MessageEmbed{
				errorEmbed("Invalid Tag", fmt.Sprintf("`%s` is not a valid tag. Tags only use the characters `0289PYLQGRJCUV`.", raw)),
			},
		})
		return "", false, err
	}

	ok, err = b.Guard.Defer(ctx, h, interaction.Options{})
	if !ok {
		return "", false, err
	}
	return tag, true, nil
}

// sendEmbeds replaces the deferred response with embeds.
func (b *Bot) sendEmbeds(ctx context.Context, h interaction.Handle, embeds ...*discordgo.MessageEmbed) error {
	_, err := b.Guard.Edit(ctx, h, interaction.Options{Embeds: embeds})
	return err
}

// sendError sends an error embed
func (b *Bot) sendError(ctx context.Context, h interaction.Handle, title, description string) error {
	return b.sendEmbeds(ctx, h, errorEmbed(title, description))
}

// sendLookupError explains a failed Clash of Clans lookup to the user.
func (b *Bot) sendLookupError(ctx context.Context, h interaction.Handle, kind, tag string, err error) error {
	title, description := describeLookupError(kind, tag, err)
	if !clash.IsNotFound(err) {
		b.Logger.Warn("clash lookup failed", zap.String("tag", tag), zap.Error(err))
	}
	return b.sendError(ctx, h, title, description)
}

func describeLookupError(kind, tag string, err error) (title, description string) {
	switch {
	case clash.IsNotFound(err):
		return kind + " Not Found", fmt.Sprintf("Could not find %s `%s`", strings.ToLower(kind), tag)
	case clash.IsMaintenance(err):
		return "Maintenance", "Clash of Clans is under maintenance. Try again later."
	case clash.IsInvalidToken(err):
		return "API Error", "The bot's Clash of Clans API key is not valid for this server's IP address."
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed Out", "The Clash of Clans API took too long to respond."
	default:
		return "API Error", "Error fetching data from the Clash of Clans API"
	}
}

// topMembers returns the count members with the most trophies.
func topMembers(members []clash.ClanMember, count int) []clash.ClanMember {
	sorted := make([]clash.ClanMember, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Trophies > sorted[j].Trophies
	})
	if len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}
