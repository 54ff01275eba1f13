package tracking

import "github.com/KirkDiggler/clanboard/internal/models"

// SaveConfigInput contains parameters for saving a tracking configuration
type SaveConfigInput struct {
	Config *models.TrackingConfig
}

// GetConfigInput contains parameters for retrieving a tracking configuration
type GetConfigInput struct {
	GuildID string
	ClanTag string
}

// DeleteConfigInput contains parameters for deleting a tracking configuration
type DeleteConfigInput struct {
	GuildID string
	ClanTag string
}

// ListConfigsOutput contains every persisted configuration
type ListConfigsOutput struct {
	Configs []*models.TrackingConfig
}

// UpdateMessageIDInput contains parameters for persisting a board message id
type UpdateMessageIDInput struct {
	GuildID   string
	ClanTag   string
	SinkType  models.SinkType
	MessageID string
}
