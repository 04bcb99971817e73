package interaction

import "github.com/bwmarrin/discordgo"

// Options describes the content of an acknowledgement. Ephemeral is consumed
// during translation and only ever reaches Discord as MessageFlagsEphemeral.
type Options struct {
	Ephemeral bool

	Content         string
	Embeds          []*discordgo.MessageEmbed
	Components      []discordgo.MessageComponent
	AllowedMentions *discordgo.MessageAllowedMentions
	Files           []*discordgo.File
}

// Flags returns the message flags implied by the options.
func (o Options) Flags() discordgo.MessageFlags {
	if o.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// ResponseData translates the options for an initial interaction response.
func (o Options) ResponseData() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:         o.Content,
		Embeds:          o.Embeds,
		Components:      o.Components,
		AllowedMentions: o.AllowedMentions,
		Files:           o.Files,
		Flags:           o.Flags(),
	}
}

// DeferData translates the options for a deferred response. Only the
// visibility survives; content is delivered later by an edit or follow-up.
func (o Options) DeferData() *discordgo.InteractionResponseData {
	if !o.Ephemeral {
		return nil
	}
	return &discordgo.InteractionResponseData{Flags: o.Flags()}
}

// WebhookParams translates the options for a follow-up message.
func (o Options) WebhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:         o.Content,
		Embeds:          o.Embeds,
		Components:      o.Components,
		AllowedMentions: o.AllowedMentions,
		Files:           o.Files,
		Flags:           o.Flags(),
	}
}

// WebhookEdit translates the options for editing the original response.
// Discord does not allow changing the visibility of an existing message, so
// Ephemeral has no effect here. Unset fields are left untouched.
func (o Options) WebhookEdit() *discordgo.WebhookEdit {
	edit := &discordgo.WebhookEdit{
		AllowedMentions: o.AllowedMentions,
		Files:           o.Files,
	}
	if o.Content != "" {
		content := o.Content
		edit.Content = &content
	}
	if o.Embeds != nil {
		embeds := o.Embeds
		edit.Embeds = &embeds
	}
	if o.Components != nil {
		components := o.Components
		edit.Components = &components
	}
	return edit
}
