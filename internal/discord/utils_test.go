package discord

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunterjsb/clashbot/internal/clash"
)

func TestChunkString(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, ChunkString("hello", 10))
	})

	t.Run("splits at line breaks", func(t *testing.T) {
		got := ChunkString("aaaa\nbbbb\ncccc", 9)
		assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, got)
	})

	t.Run("long line", func(t *testing.T) {
		got := ChunkString(strings.Repeat("x", 25), 10)
		assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, got)
	})

	t.Run("keeps runes whole", func(t *testing.T) {
		s := strings.Repeat("é", 10)
		for _, chunk := range ChunkString(s, 5) {
			assert.True(t, utf8.ValidString(chunk), "chunk %q", chunk)
			assert.LessOrEqual(t, len(chunk), 5)
		}
	})

	t.Run("respects size", func(t *testing.T) {
		s := strings.Repeat("line of text\n", 1000)
		chunks := ChunkString(s, maxEmbedDescription)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), maxEmbedDescription)
		}
	})
}

func TestParseOptions(t *testing.T) {
	opts := ParseOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		boolOpt("private", true),
		stringOpt("tag", "#2PP"),
		intOpt("count", 7),
		nil,
	})

	assert.Equal(t, "#2PP", opts.String("tag"))
	assert.Equal(t, 7, opts.Int("count", 10))
	assert.True(t, opts.Bool("private"))

	assert.Equal(t, "", opts.String("missing"))
	assert.Equal(t, 10, opts.Int("missing", 10))
	assert.False(t, opts.Bool("missing"))
	assert.Equal(t, "", opts.String("count"))
}

func TestTopMembers(t *testing.T) {
	members := []clash.ClanMember{
		{Name: "A", Trophies: 10},
		{Name: "B", Trophies: 30},
		{Name: "C", Trophies: 30},
		{Name: "D", Trophies: 20},
	}

	top := topMembers(members, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, "C", top[1].Name)
	assert.Equal(t, "D", top[2].Name)
	assert.Equal(t, "A", members[0].Name)

	assert.Len(t, topMembers(members, 10), 4)
}
