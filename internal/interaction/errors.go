package interaction

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Discord JSON error codes the guard recovers from.
const (
	CodeUnknownInteraction  = 10062
	CodeAlreadyAcknowledged = 40060
)

// Kind classifies a failed acknowledgement.
type Kind int

const (
	// KindOther is any failure the guard does not recover from.
	KindOther Kind = iota
	// KindStaleInteraction means the interaction token expired or never existed.
	KindStaleInteraction
	// KindAlreadyAcknowledged means another code path acknowledged first.
	KindAlreadyAcknowledged
)

func (k Kind) String() string {
	switch k {
	case KindStaleInteraction:
		return "stale_interaction"
	case KindAlreadyAcknowledged:
		return "already_acknowledged"
	default:
		return "other"
	}
}

var (
	ErrStaleInteraction    = errors.New("unknown interaction")
	ErrAlreadyAcknowledged = errors.New("interaction has already been acknowledged")
)

// Classify maps an acknowledgement error to its Kind. Discord REST errors are
// matched on their JSON error code; the sentinel errors above match as well.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, ErrStaleInteraction) {
		return KindStaleInteraction
	}
	if errors.Is(err, ErrAlreadyAcknowledged) {
		return KindAlreadyAcknowledged
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case CodeUnknownInteraction:
			return KindStaleInteraction
		case CodeAlreadyAcknowledged:
			return KindAlreadyAcknowledged
		}
	}
	return KindOther
}

// recoverable reports whether reply, follow-up and edit failures of this
// kind are swallowed.
func (k Kind) recoverable() bool {
	return k == KindStaleInteraction || k == KindAlreadyAcknowledged
}
