package board

// State is the lifecycle state of a board's backing message
type State int

const (
	// StateUnresolved means a message id may be configured but was not checked yet
	StateUnresolved State = iota

	// StateCached means MessageID refers to a live message
	StateCached

	// StateGone means there is no live message and the next render sends one
	StateGone
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateCached:
		return "cached"
	case StateGone:
		return "gone"
	}
	return "unknown"
}

// Handle tracks the backing message of one board sink
type Handle struct {
	State     State
	ChannelID string

	// MessageID is the configured id while Unresolved and the live id while Cached
	MessageID string

	// Dirty is set while a new MessageID has not been persisted yet
	Dirty bool
}

func unresolved(channelID, messageID string) *Handle {
	return &Handle{
		State:     StateUnresolved,
		ChannelID: channelID,
		MessageID: messageID,
	}
}

func (h *Handle) cache(messageID string) {
	h.State = StateCached
	h.MessageID = messageID
}

func (h *Handle) gone() {
	h.State = StateGone
	h.MessageID = ""
	h.Dirty = false
}
