package discord

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hunterjsb/clashbot/internal/clash"
	"github.com/hunterjsb/clashbot/internal/interaction"
	"github.com/hunterjsb/clashbot/internal/interaction/interactiontest"
)

type fakeClash struct {
	clan    *clash.Clan
	player  *clash.Player
	war     *clash.War
	members []clash.ClanMember
	err     error
	block   bool

	tags []string
}

func (f *fakeClash) lookup(ctx context.Context, tag string) error {
	f.tags = append(f.tags, tag)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeClash) GetClan(ctx context.Context, tag string) (*clash.Clan, error) {
	if err := f.lookup(ctx, tag); err != nil {
		return nil, err
	}
	return f.clan, nil
}

func (f *fakeClash) GetClanMembers(ctx context.Context, tag string) ([]clash.ClanMember, error) {
	if err := f.lookup(ctx, tag); err != nil {
		return nil, err
	}
	return f.members, nil
}

func (f *fakeClash) GetPlayer(ctx context.Context, tag string) (*clash.Player, error) {
	if err := f.lookup(ctx, tag); err != nil {
		return nil, err
	}
	return f.player, nil
}

func (f *fakeClash) GetCurrentWar(ctx context.Context, tag string) (*clash.War, error) {
	if err := f.lookup(ctx, tag); err != nil {
		return nil, err
	}
	return f.war, nil
}

type fakeAssistant struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAssistant) GenerateResponse(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func newTestBot(t *testing.T, cs ClashService, assistant Assistant) (*Bot, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	bot, err := NewBot(Config{Token: "test-token", CommandTimeout: time.Second}, cs, assistant, zap.New(core))
	require.NoError(t, err)
	bot.latency = func() time.Duration { return 42 * time.Millisecond }
	return bot, logs
}

func command(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{Name: name, Options: options}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	// Option values arrive as JSON numbers.
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func boolOpt(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: value}
}

func lastEmbed(t *testing.T, h *interactiontest.Handle) *discordgo.MessageEmbed {
	t.Helper()
	call, ok := h.Last()
	require.True(t, ok)
	require.NotEmpty(t, call.Options.Embeds)
	return call.Options.Embeds[0]
}

func TestClanCommand(t *testing.T) {
	cs := &fakeClash{clan: &clash.Clan{Tag: "#2PP", Name: "Test Clan", ClanLevel: 12, Members: 48}}
	bot, _ := newTestBot(t, cs, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "2pp")))

	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	assert.Equal(t, []string{"#2PP"}, cs.tags)
	embed := lastEmbed(t, h)
	assert.Equal(t, "Test Clan (#2PP)", embed.Title)
	assert.Equal(t, "48/50", embed.Fields[1].Value)
}

func TestPlayerCommand(t *testing.T) {
	cs := &fakeClash{player: &clash.Player{
		Tag: "#YL0Q", Name: "Chief", TownHallLevel: 16,
		Heroes: []clash.Unit{
			{Name: "Barbarian King", Level: 95, MaxLevel: 95, Village: "home"},
			{Name: "Battle Machine", Level: 30, MaxLevel: 35, Village: "builderBase"},
		},
	}}
	bot, _ := newTestBot(t, cs, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("player", stringOpt("tag", "#YL0Q")))

	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	embed := lastEmbed(t, h)
	assert.Equal(t, "Chief (#YL0Q)", embed.Title)

	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, "Barbarian King 95 (max)", last.Value)
}

func TestTagCommand_InvalidTag(t *testing.T) {
	cs := &fakeClash{}
	bot, _ := newTestBot(t, cs, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "not a tag")))

	assert.Equal(t, []string{"Reply"}, h.Methods())
	assert.Empty(t, cs.tags)
	call, _ := h.Last()
	assert.True(t, call.Options.Ephemeral)
	assert.Contains(t, call.Options.Embeds[0].Title, "Invalid Tag")
}

func TestTagCommand_NotFound(t *testing.T) {
	cs := &fakeClash{err: &clash.APIError{StatusCode: http.StatusNotFound, Reason: "notFound"}}
	bot, logs := newTestBot(t, cs, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("player", stringOpt("tag", "#YL0Q")))

	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	embed := lastEmbed(t, h)
	assert.Equal(t, "❌ Player Not Found", embed.Title)
	assert.Equal(t, colorError, embed.Color)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestTagCommand_Timeout(t *testing.T) {
	cs := &fakeClash{block: true}
	bot, _ := newTestBot(t, cs, nil)
	bot.Config.CommandTimeout = 10 * time.Millisecond
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "#2PP")))

	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	assert.Equal(t, "❌ Timed Out", lastEmbed(t, h).Title)
}

func TestTagCommand_StaleDeferStops(t *testing.T) {
	cs := &fakeClash{}
	bot, logs := newTestBot(t, cs, nil)
	h := interactiontest.New()
	h.Errs = map[string]error{
		"DeferReply": interactiontest.RESTError(http.StatusNotFound, interaction.CodeUnknownInteraction, "Unknown interaction"),
	}

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "#2PP")))

	assert.Equal(t, []string{"DeferReply"}, h.Methods())
	assert.Empty(t, cs.tags)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestDispatch_ApologizesOnUnexpectedError(t *testing.T) {
	cs := &fakeClash{clan: &clash.Clan{Tag: "#2PP", Name: "Test Clan"}}
	bot, logs := newTestBot(t, cs, nil)
	h := interactiontest.New()
	h.Errs = map[string]error{
		"EditReply": interactiontest.RESTError(http.StatusInternalServerError, 0, "Internal Server Error"),
	}

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "#2PP")))

	assert.Equal(t, []string{"DeferReply", "EditReply", "FollowUp"}, h.Methods())
	call, _ := h.Last()
	assert.True(t, call.Options.Ephemeral)
	assert.Equal(t, apologyMessage, call.Options.Content)
	assert.Equal(t, 1, logs.FilterMessage("command failed").Len())
}

func TestDispatch_ApologyFailureIsLogged(t *testing.T) {
	bot, logs := newTestBot(t, &fakeClash{}, nil)
	h := interactiontest.New()
	h.Err = errors.New("connection reset")

	bot.Dispatch(context.Background(), h, command("ping"))

	assert.Equal(t, []string{"Reply", "Reply"}, h.Methods())
	assert.Equal(t, 1, logs.FilterMessage("error sending apology").Len())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	bot, logs := newTestBot(t, &fakeClash{}, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("dance"))

	assert.Equal(t, []string{"Reply"}, h.Methods())
	call, _ := h.Last()
	assert.True(t, call.Options.Ephemeral)
	assert.Contains(t, call.Options.Embeds[0].Description, "/dance")
	assert.Equal(t, 1, logs.FilterMessage("unknown command").Len())
}

func TestDispatch_NotRepliable(t *testing.T) {
	cs := &fakeClash{}
	bot, _ := newTestBot(t, cs, nil)
	h := interactiontest.New()
	h.CanReply = false

	bot.Dispatch(context.Background(), h, command("clan", stringOpt("tag", "#2PP")))

	assert.Empty(t, h.Methods())
	assert.Empty(t, cs.tags)
}

func TestPingCommand(t *testing.T) {
	bot, _ := newTestBot(t, &fakeClash{}, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("ping"))

	call, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "Reply", call.Method)
	assert.True(t, call.Options.Ephemeral)
	assert.Equal(t, "Pong! Gateway latency: 42ms", call.Options.Content)
}

func TestHelpCommand(t *testing.T) {
	bot, _ := newTestBot(t, &fakeClash{}, &fakeAssistant{})
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("help"))

	embed := lastEmbed(t, h)
	assert.Contains(t, embed.Description, "`/members tag: [count]`")
	assert.Contains(t, embed.Description, "`/ask prompt: [private]`")
}

func TestWarCommand(t *testing.T) {
	tests := []struct {
		name  string
		war   *clash.War
		err   error
		title string
	}{
		{
			name:  "in war",
			war:   &clash.War{State: clash.WarStateInWar, TeamSize: 15, Clan: clash.WarClan{Name: "Us"}, Opponent: clash.WarClan{Name: "Them"}},
			title: "Us vs Them",
		},
		{
			name:  "not in war",
			war:   &clash.War{State: clash.WarStateNotInWar},
			title: "⚠️ Not In War",
		},
		{
			name:  "private war log",
			err:   &clash.APIError{StatusCode: http.StatusForbidden, Reason: "accessDenied"},
			title: "⚠️ War Log Private",
		},
		{
			name:  "maintenance",
			err:   &clash.APIError{StatusCode: http.StatusServiceUnavailable, Reason: "inMaintenance"},
			title: "❌ Maintenance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, _ := newTestBot(t, &fakeClash{war: tt.war, err: tt.err}, nil)
			h := interactiontest.New()

			bot.Dispatch(context.Background(), h, command("war", stringOpt("tag", "#2PP")))

			assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
			assert.Equal(t, tt.title, lastEmbed(t, h).Title)
		})
	}
}

func TestMembersCommand(t *testing.T) {
	cs := &fakeClash{members: []clash.ClanMember{
		{Name: "Low", Trophies: 100},
		{Name: "High", Trophies: 5000},
		{Name: "Mid", Trophies: 2500},
	}}
	bot, _ := newTestBot(t, cs, nil)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("members", stringOpt("tag", "#2PP"), intOpt("count", 2)))

	embed := lastEmbed(t, h)
	assert.Equal(t, "Top 2 members of #2PP", embed.Title)
	lines := strings.Split(embed.Description, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "High")
	assert.Contains(t, lines[1], "Mid")
}

func TestAskCommand(t *testing.T) {
	assistant := &fakeAssistant{response: "Use Queen Charge."}
	bot, _ := newTestBot(t, &fakeClash{}, assistant)
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("ask", stringOpt("prompt", " best th12 attack? ")))

	assert.Equal(t, []string{"best th12 attack?"}, assistant.prompts)
	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	assert.False(t, h.Calls()[0].Options.Ephemeral)
	assert.Equal(t, "Use Queen Charge.", lastEmbed(t, h).Description)
}

func TestAskCommand_PrivateLongAnswer(t *testing.T) {
	answer := strings.Repeat(strings.Repeat("a", 99)+"\n", 90)
	bot, _ := newTestBot(t, &fakeClash{}, &fakeAssistant{response: answer})
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("ask", stringOpt("prompt", "essay please"), boolOpt("private", true)))

	calls := h.Calls()
	assert.Equal(t, []string{"DeferReply", "EditReply", "FollowUp", "FollowUp"}, h.Methods())
	assert.True(t, calls[0].Options.Ephemeral)
	assert.True(t, calls[2].Options.Ephemeral)
	assert.Equal(t, "🤖 AI Response (Part 1 of 3)", calls[1].Options.Embeds[0].Title)
	assert.Nil(t, calls[1].Options.Embeds[0].Footer)
	assert.NotNil(t, calls[3].Options.Embeds[0].Footer)
}

func TestAskCommand_Error(t *testing.T) {
	bot, _ := newTestBot(t, &fakeClash{}, &fakeAssistant{err: errors.New("quota exceeded")})
	h := interactiontest.New()

	bot.Dispatch(context.Background(), h, command("ask", stringOpt("prompt", "hi")))

	assert.Equal(t, []string{"DeferReply", "EditReply"}, h.Methods())
	assert.Equal(t, "❌ AI Error", lastEmbed(t, h).Title)
}

func TestAskCommand_Disabled(t *testing.T) {
	bot, _ := newTestBot(t, &fakeClash{}, nil)

	for _, def := range bot.definitions() {
		assert.NotEqual(t, "ask", def.Name)
	}

	h := interactiontest.New()
	bot.Dispatch(context.Background(), h, command("ask", stringOpt("prompt", "hi")))
	assert.Equal(t, []string{"Reply"}, h.Methods())
	assert.Equal(t, "❌ Unknown Command", lastEmbed(t, h).Title)
}
