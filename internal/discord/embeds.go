package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/clashbot/internal/clash"
)

const (
	colorError   = 0xff0000
	colorWarning = 0xffa500
	colorSuccess = 0x00ff00
	colorClash   = 0xf1c40f
)

// errorEmbed creates an error message embed
func errorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: description,
		Color:       colorError,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func warningEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ " + title,
		Description: description,
		Color:       colorWarning,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func formatHelpEmbed(defs []*discordgo.ApplicationCommand) *discordgo.MessageEmbed {
	var lines []string
	for _, cmd := range defs {
		usage := "/" + cmd.Name
		for _, opt := range cmd.Options {
			if opt.Required {
				usage += fmt.Sprintf(" %s:", opt.Name)
			} else {
				usage += fmt.Sprintf(" [%s]", opt.Name)
			}
		}
		lines = append(lines, fmt.Sprintf("`%s`\n%s", usage, cmd.Description))
	}

	return &discordgo.MessageEmbed{
		Title:       "📖 Commands",
		Description: strings.Join(lines, "\n\n"),
		Color:       colorClash,
	}
}

// formatClanEmbed formats a clan profile into a Discord embed
func formatClanEmbed(clan *clash.Clan) *discordgo.MessageEmbed {
	warLeague := "Unranked"
	if clan.WarLeague != nil && clan.WarLeague.Name != "" {
		warLeague = clan.WarLeague.Name
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "🏰 Level", Value: fmt.Sprintf("%d", clan.ClanLevel), Inline: true},
		{Name: "👥 Members", Value: fmt.Sprintf("%d/50", clan.Members), Inline: true},
		{Name: "⚔️ War League", Value: warLeague, Inline: true},
		{Name: "🏆 Points", Value: fmt.Sprintf("%d", clan.ClanPoints), Inline: true},
		{Name: "🛠️ Builder Base", Value: fmt.Sprintf("%d", clan.ClanBuilderBasePoints), Inline: true},
		{Name: "🏛️ Capital", Value: fmt.Sprintf("%d", clan.ClanCapitalPoints), Inline: true},
		{Name: "📜 War Record", Value: formatWarRecord(clan), Inline: false},
	}

	if clan.RequiredTrophies > 0 || clan.RequiredTownhallLevel > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🚪 Requirements",
			Value:  fmt.Sprintf("%d trophies, TH%d", clan.RequiredTrophies, clan.RequiredTownhallLevel),
			Inline: false,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%s)", clan.Name, clan.Tag),
		Description: clan.Description,
		Color:       colorClash,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if clan.BadgeURLs.Medium != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: clan.BadgeURLs.Medium}
	}
	if clan.Location != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: clan.Location.Name}
	}
	return embed
}

func formatWarRecord(clan *clash.Clan) string {
	record := fmt.Sprintf("%d wins", clan.WarWins)
	if clan.IsWarLogPublic {
		record = fmt.Sprintf("%d-%d-%d (W-T-L)", clan.WarWins, clan.WarTies, clan.WarLosses)
	}
	if clan.WarWinStreak > 1 {
		record += fmt.Sprintf(", %d win streak", clan.WarWinStreak)
	}
	return record
}

// formatPlayerEmbed formats a player profile into a Discord embed
func formatPlayerEmbed(player *clash.Player) *discordgo.MessageEmbed {
	league := "Unranked"
	if player.League != nil && player.League.Name != "" {
		league = player.League.Name
	}

	clanName := "No clan"
	if player.Clan != nil {
		clanName = fmt.Sprintf("%s (%s)", player.Clan.Name, player.Clan.Tag)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "🏠 Town Hall", Value: fmt.Sprintf("%d", player.TownHallLevel), Inline: true},
		{Name: "⭐ Exp Level", Value: fmt.Sprintf("%d", player.ExpLevel), Inline: true},
		{Name: "🏅 League", Value: league, Inline: true},
		{Name: "🏆 Trophies", Value: fmt.Sprintf("%d (best %d)", player.Trophies, player.BestTrophies), Inline: true},
		{Name: "⚔️ War Stars", Value: fmt.Sprintf("%d", player.WarStars), Inline: true},
		{Name: "🎁 Donations", Value: fmt.Sprintf("%d given, %d received", player.Donations, player.DonationsReceived), Inline: true},
		{Name: "🛡️ Clan", Value: clanName, Inline: false},
	}

	if heroes := formatHeroes(player.Heroes); heroes != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "👑 Heroes", Value: heroes, Inline: false})
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s (%s)", player.Name, player.Tag),
		Color:     colorClash,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if player.League != nil && player.League.IconURLs.Small != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: player.League.IconURLs.Small}
	}
	return embed
}

// formatHeroes lists home village heroes, marking maxed ones.
func formatHeroes(heroes []clash.Unit) string {
	var parts []string
	for _, hero := range heroes {
		if hero.Village != "" && hero.Village != "home" {
			continue
		}
		part := fmt.Sprintf("%s %d", hero.Name, hero.Level)
		if hero.MaxLevel > 0 && hero.Level >= hero.MaxLevel {
			part += " (max)"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n")
}

var warStateNames = map[string]string{
	clash.WarStatePreparation: "Preparation day",
	clash.WarStateInWar:       "Battle day",
	clash.WarStateEnded:       "War ended",
}

// formatWarEmbed formats the current war into a Discord embed
func formatWarEmbed(war *clash.War) *discordgo.MessageEmbed {
	state, ok := warStateNames[war.State]
	if !ok {
		state = war.State
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "📋 State", Value: state, Inline: true},
		{Name: "👥 Size", Value: fmt.Sprintf("%dv%d", war.TeamSize, war.TeamSize), Inline: true},
		{
			Name:   "⭐ Stars",
			Value:  fmt.Sprintf("%d - %d", war.Clan.Stars, war.Opponent.Stars),
			Inline: true,
		},
		{
			Name:   "💥 Destruction",
			Value:  fmt.Sprintf("%.1f%% - %.1f%%", war.Clan.DestructionPercentage, war.Opponent.DestructionPercentage),
			Inline: true,
		},
	}

	if war.AttacksPerMember > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "🗡️ Attacks",
			Value:  fmt.Sprintf("%d/%d", war.Clan.Attacks, war.TeamSize*war.AttacksPerMember),
			Inline: true,
		})
	}

	label, timestamp := "Ends", war.EndTime
	if war.State == clash.WarStatePreparation {
		label, timestamp = "Starts", war.StartTime
	}
	if t, err := clash.ParseTime(timestamp); err == nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "⏰ " + label,
			Value:  fmt.Sprintf("<t:%d:R>", t.Unix()),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s vs %s", war.Clan.Name, war.Opponent.Name),
		Color:     colorClash,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if war.Clan.BadgeURLs.Medium != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: war.Clan.BadgeURLs.Medium}
	}
	return embed
}

// formatMembersEmbed lists members in the given order.
func formatMembersEmbed(tag string, members []clash.ClanMember) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(members))
	for i, m := range members {
		lines = append(lines, fmt.Sprintf("`%2d.` **%s** TH%d, %d 🏆", i+1, m.Name, m.TownHallLevel, m.Trophies))
	}

	description := strings.Join(lines, "\n")
	if description == "" {
		description = "This clan has no members."
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Top %d members of %s", len(members), tag),
		Description: description,
		Color:       colorClash,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// formatAnswerEmbeds splits an AI answer into embeds that each fit Discord's
// description limit. It always returns at least one embed.
func formatAnswerEmbeds(response string) []*discordgo.MessageEmbed {
	if strings.TrimSpace(response) == "" {
		response = "_The assistant returned an empty answer._"
	}

	chunks := ChunkString(response, maxEmbedDescription)
	embeds := make([]*discordgo.MessageEmbed, 0, len(chunks))

	for i, chunk := range chunks {
		title := "🤖 AI Response"
		if len(chunks) > 1 {
			title = fmt.Sprintf("🤖 AI Response (Part %d of %d)", i+1, len(chunks))
		}
		embed := &discordgo.MessageEmbed{
			Title:       title,
			Description: chunk,
			Color:       colorSuccess,
		}

		// Add footer only to the last embed
		if i == len(chunks)-1 {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: "Powered by OpenAI"}
			embed.Timestamp = time.Now().Format(time.RFC3339)
		}

		embeds = append(embeds, embed)
	}

	return embeds
}
