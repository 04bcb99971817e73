// Package interactiontest provides an in-memory interaction.Handle for tests.
package interactiontest

import (
	"context"
	"net/http"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/clashbot/internal/interaction"
)

// Call records one acknowledgement attempted on a Handle.
type Call struct {
	Method  string
	Options interaction.Options
}

// Handle is a fake interaction that records calls and returns scripted
// errors. The zero value is not repliable; use New.
type Handle struct {
	mu sync.Mutex

	CanReply   bool
	IsDeferred bool
	IsReplied  bool

	// Err, if set, is returned by every acknowledgement call. Errs overrides
	// it per method name ("DeferReply", "Reply", "FollowUp", "EditReply").
	Err  error
	Errs map[string]error

	// Message is returned by successful FollowUp and EditReply calls.
	Message *discordgo.Message

	calls []Call
}

// New returns a fresh, repliable Handle.
func New() *Handle {
	return &Handle{CanReply: true, Message: &discordgo.Message{ID: "message-id"}}
}

func (h *Handle) ID() string { return "interaction-id" }

func (h *Handle) Repliable() bool { return h.CanReply }

func (h *Handle) Deferred() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.IsDeferred
}

func (h *Handle) Replied() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.IsReplied
}

func (h *Handle) DeferReply(_ context.Context, opts interaction.Options) error {
	if err := h.record("DeferReply", opts); err != nil {
		return err
	}
	h.mu.Lock()
	h.IsDeferred = true
	h.mu.Unlock()
	return nil
}

func (h *Handle) Reply(_ context.Context, opts interaction.Options) (*discordgo.Message, error) {
	if err := h.record("Reply", opts); err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.IsReplied = true
	h.mu.Unlock()
	return nil, nil
}

func (h *Handle) FollowUp(_ context.Context, opts interaction.Options) (*discordgo.Message, error) {
	if err := h.record("FollowUp", opts); err != nil {
		return nil, err
	}
	return h.Message, nil
}

func (h *Handle) EditReply(_ context.Context, opts interaction.Options) (*discordgo.Message, error) {
	if err := h.record("EditReply", opts); err != nil {
		return nil, err
	}
	return h.Message, nil
}

// Calls returns the acknowledgements attempted so far, in order.
func (h *Handle) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// Methods returns the method names of Calls.
func (h *Handle) Methods() []string {
	calls := h.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Last returns the most recent call, or false if none was made.
func (h *Handle) Last() (Call, bool) {
	calls := h.Calls()
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

func (h *Handle) record(method string, opts interaction.Options) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, Call{Method: method, Options: opts})
	if err, ok := h.Errs[method]; ok {
		return err
	}
	return h.Err
}

// RESTError builds the error discordgo returns for a JSON error code.
func RESTError(status, code int, message string) *discordgo.RESTError {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status, Status: http.StatusText(status)},
		Message:  &discordgo.APIErrorMessage{Code: code, Message: message},
	}
}
