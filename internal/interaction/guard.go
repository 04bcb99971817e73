// Package interaction acknowledges Discord interactions without crashing or
// double-acknowledging when the interaction token has expired or another code
// path already answered it.
package interaction

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Guard mediates every acknowledgement sent for an interaction. It holds no
// per-interaction state; deferred/replied live on the Handle.
type Guard struct {
	logger *zap.Logger
}

// NewGuard creates a Guard that logs recovered failures as warnings and
// unexpected ones as errors. A nil logger disables logging.
func NewGuard(logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger.Named("interaction")}
}

// Defer acknowledges h with a deferred response. It returns false when h
// cannot be replied to or its token is stale, in which case the caller should
// stop working on the interaction. Deferring twice is a no-op returning true.
// Other failures, including a lost race with another acknowledgement, are
// returned.
func (g *Guard) Defer(ctx context.Context, h Handle, opts Options) (bool, error) {
	if !repliable(h) {
		return false, nil
	}
	if h.Deferred() || h.Replied() {
		return true, nil
	}

	if err := h.DeferReply(ctx, opts); err != nil {
		kind := Classify(err)
		if kind == KindStaleInteraction {
			g.logger.Warn("interaction expired before defer", g.fields(h, kind, err)...)
			return false, nil
		}
		g.logger.Error("defer interaction failed", g.fields(h, kind, err)...)
		return false, err
	}
	return true, nil
}

// ReplyOrFollow sends the initial reply, or a follow-up when h was already
// deferred or replied to. Stale and already-acknowledged failures resolve to
// (nil, nil); any other failure is returned.
func (g *Guard) ReplyOrFollow(ctx context.Context, h Handle, opts Options) (*discordgo.Message, error) {
	if !repliable(h) {
		return nil, nil
	}

	var (
		msg *discordgo.Message
		err error
		op  = "reply"
	)
	if h.Deferred() || h.Replied() {
		op = "follow-up"
		msg, err = h.FollowUp(ctx, opts)
	} else {
		msg, err = h.Reply(ctx, opts)
	}
	if err != nil {
		return nil, g.handleFailure(h, op, err)
	}
	return msg, nil
}

// Edit replaces the content of the original response or deferred placeholder.
// A fresh interaction has nothing to edit, so Edit falls back to
// ReplyOrFollow. Failure handling matches ReplyOrFollow.
func (g *Guard) Edit(ctx context.Context, h Handle, opts Options) (*discordgo.Message, error) {
	if !repliable(h) {
		return nil, nil
	}
	if !h.Deferred() && !h.Replied() {
		return g.ReplyOrFollow(ctx, h, opts)
	}

	msg, err := h.EditReply(ctx, opts)
	if err != nil {
		return nil, g.handleFailure(h, "edit", err)
	}
	return msg, nil
}

// handleFailure swallows stale and already-acknowledged failures and returns
// everything else.
func (g *Guard) handleFailure(h Handle, op string, err error) error {
	kind := Classify(err)
	fields := append(g.fields(h, kind, err), zap.String("op", op))
	if kind.recoverable() {
		g.logger.Warn("interaction acknowledgement skipped", fields...)
		return nil
	}
	g.logger.Error("interaction acknowledgement failed", fields...)
	return err
}

func (g *Guard) fields(h Handle, kind Kind, err error) []zap.Field {
	fields := []zap.Field{zap.Stringer("kind", kind), zap.Error(err)}
	if identified, ok := h.(interface{ ID() string }); ok {
		fields = append(fields, zap.String("interaction_id", identified.ID()))
	}
	return fields
}

func repliable(h Handle) bool {
	return h != nil && h.Repliable()
}
