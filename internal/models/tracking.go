package models

// SinkType names one category of rendered content
type SinkType string

const (
	// SinkTypeDonation is the donation ledger, one message per cycle with donations
	SinkTypeDonation SinkType = "donation"

	// SinkTypeFeed is the join/leave feed, one message per membership change
	SinkTypeFeed SinkType = "feed"

	// SinkTypeBoard is the last-active leaderboard, edited in place
	SinkTypeBoard SinkType = "board"

	// SinkTypeSummary is the promotional clan summary, edited in place
	SinkTypeSummary SinkType = "summary"
)

// AllSinkTypes lists sink types in dispatch order
var AllSinkTypes = []SinkType{SinkTypeDonation, SinkTypeFeed, SinkTypeBoard, SinkTypeSummary}

// IsValid reports whether t is a known sink type
func (t SinkType) IsValid() bool {
	switch t {
	case SinkTypeDonation, SinkTypeFeed, SinkTypeBoard, SinkTypeSummary:
		return true
	}
	return false
}

// IsBoard reports whether the sink keeps a single message that is edited in place
func (t SinkType) IsBoard() bool {
	return t == SinkTypeBoard || t == SinkTypeSummary
}

// SinkConfig is the configuration of one enabled sink
type SinkConfig struct {
	// ChannelID is the destination channel
	ChannelID string `json:"channelId"`

	// Color is the embed colour
	Color int `json:"color,omitempty"`

	// MessageID is the backing message for board sinks
	MessageID string `json:"messageId,omitempty"`

	// CustomText is appended to the summary sink
	CustomText string `json:"customText,omitempty"`
}

// TrackingConfig is the persisted configuration of one tracked clan in one guild
type TrackingConfig struct {
	// GuildID is the Discord guild that owns this configuration
	GuildID string `json:"guildId"`

	// ClanTag is the tracked clan
	ClanTag string `json:"clanTag"`

	// Sinks holds the enabled sinks keyed by type
	Sinks map[SinkType]*SinkConfig `json:"sinks"`
}

// Sink returns the config for t or nil when the sink is not enabled
func (c *TrackingConfig) Sink(t SinkType) *SinkConfig {
	if c == nil || c.Sinks == nil {
		return nil
	}
	return c.Sinks[t]
}

// HasSinks reports whether at least one sink is enabled
func (c *TrackingConfig) HasSinks() bool {
	return c != nil && len(c.Sinks) > 0
}

// Clone returns a deep copy
func (c *TrackingConfig) Clone() *TrackingConfig {
	if c == nil {
		return nil
	}
	out := &TrackingConfig{
		GuildID: c.GuildID,
		ClanTag: c.ClanTag,
		Sinks:   make(map[SinkType]*SinkConfig, len(c.Sinks)),
	}
	for t, s := range c.Sinks {
		cp := *s
		out.Sinks[t] = &cp
	}
	return out
}
