package discord

import (
	"github.com/bwmarrin/discordgo"
)

// CommandOptions indexes slash command options by name.
type CommandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

// ParseOptions extracts the options of a slash command. Options are looked up
// by name, so their order in the command definition does not matter.
func ParseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) CommandOptions {
	parsed := make(CommandOptions, len(options))
	for _, opt := range options {
		if opt != nil {
			parsed[opt.Name] = opt
		}
	}
	return parsed
}

// String returns a string option, or "" if it was not given.
func (o CommandOptions) String(name string) string {
	opt, ok := o[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// Int returns an integer option, or def if it was not given.
func (o CommandOptions) Int(name string, def int) int {
	opt, ok := o[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return def
	}
	return int(opt.IntValue())
}

// Bool returns a boolean option, or false if it was not given.
func (o CommandOptions) Bool(name string) bool {
	opt, ok := o[name]
	if !ok || opt.Type != discordgo.ApplicationCommandOptionBoolean {
		return false
	}
	return opt.BoolValue()
}
