package interaction

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Handle is a borrowed, single-use interaction. The guard never keeps a
// Handle beyond the call it was passed to.
type Handle interface {
	// Repliable is the capability probe. A nil Handle or one returning false
	// is treated as never having been valid.
	Repliable() bool
	Deferred() bool
	Replied() bool

	DeferReply(ctx context.Context, opts Options) error
	Reply(ctx context.Context, opts Options) (*discordgo.Message, error)
	FollowUp(ctx context.Context, opts Options) (*discordgo.Message, error)
	EditReply(ctx context.Context, opts Options) (*discordgo.Message, error)
}

// Responder is the subset of *discordgo.Session used to acknowledge
// interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// SessionHandle adapts a gateway interaction to Handle. It tracks whether
// the interaction has been deferred or replied to; state only changes after
// Discord accepted the acknowledgement.
type SessionHandle struct {
	responder   Responder
	interaction *discordgo.Interaction

	deferred atomic.Bool
	replied  atomic.Bool
}

// NewSessionHandle wraps interaction i, acknowledged through r (usually the
// bot's *discordgo.Session).
func NewSessionHandle(r Responder, i *discordgo.Interaction) *SessionHandle {
	return &SessionHandle{responder: r, interaction: i}
}

// ID returns the interaction ID, or an empty string for a nil handle.
func (h *SessionHandle) ID() string {
	if h == nil || h.interaction == nil {
		return ""
	}
	return h.interaction.ID
}

// Repliable reports whether the interaction type accepts message responses.
// Pings and autocomplete requests do not.
func (h *SessionHandle) Repliable() bool {
	if h == nil || h.responder == nil || h.interaction == nil {
		return false
	}
	switch h.interaction.Type {
	case discordgo.InteractionApplicationCommand,
		discordgo.InteractionMessageComponent,
		discordgo.InteractionModalSubmit:
		return true
	default:
		return false
	}
}

func (h *SessionHandle) Deferred() bool { return h.deferred.Load() }

func (h *SessionHandle) Replied() bool { return h.replied.Load() }

// DeferReply sends a deferred channel message response ("bot is thinking").
func (h *SessionHandle) DeferReply(ctx context.Context, opts Options) error {
	err := h.responder.InteractionRespond(h.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: opts.DeferData(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	h.deferred.Store(true)
	return nil
}

// Reply sends the initial response. Discord does not return the created
// message for interaction callbacks, so the message is always nil.
func (h *SessionHandle) Reply(ctx context.Context, opts Options) (*discordgo.Message, error) {
	err := h.responder.InteractionRespond(h.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: opts.ResponseData(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	h.replied.Store(true)
	return nil, nil
}

// FollowUp sends an additional message. Follow-ups stack and leave the
// deferred/replied state as it was.
func (h *SessionHandle) FollowUp(ctx context.Context, opts Options) (*discordgo.Message, error) {
	return h.responder.FollowupMessageCreate(h.interaction, true, opts.WebhookParams(), discordgo.WithContext(ctx))
}

// EditReply edits the original response or the deferred placeholder.
func (h *SessionHandle) EditReply(ctx context.Context, opts Options) (*discordgo.Message, error) {
	return h.responder.InteractionResponseEdit(h.interaction, opts.WebhookEdit(), discordgo.WithContext(ctx))
}
