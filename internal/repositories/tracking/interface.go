package tracking

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/clanboard/internal/repositories/tracking Repository

import (
	"context"

	"github.com/KirkDiggler/clanboard/internal/models"
)

// Repository defines the interface for tracking configuration persistence
type Repository interface {
	// SaveConfig upserts the configuration keyed by guild and clan
	SaveConfig(ctx context.Context, input *SaveConfigInput) error

	// GetConfig retrieves one configuration
	GetConfig(ctx context.Context, input *GetConfigInput) (*models.TrackingConfig, error)

	// DeleteConfig removes one configuration
	DeleteConfig(ctx context.Context, input *DeleteConfigInput) error

	// ListConfigs returns every persisted configuration
	ListConfigs(ctx context.Context) (*ListConfigsOutput, error)

	// UpdateMessageID records the backing message of a board sink
	UpdateMessageID(ctx context.Context, input *UpdateMessageIDInput) error
}
