package tracker

import (
	"context"
	"errors"

	"github.com/KirkDiggler/clanboard/internal/models"
)

var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrNilTrackingRepo = errors.New("tracking repository cannot be nil")
	ErrNilLastSeenRepo = errors.New("last seen repository cannot be nil")
	ErrNilClanClient   = errors.New("clan client cannot be nil")
	ErrNilDispatcher   = errors.New("dispatcher cannot be nil")
	ErrNilDelivery     = errors.New("delivery client cannot be nil")
	ErrNilThrottle     = errors.New("throttle cannot be nil")
	ErrInvalidInterval = errors.New("interval must be positive")

	ErrInvalidInput    = errors.New("guild ID and clan tag cannot be empty")
	ErrInvalidSinkType = errors.New("invalid sink type")
	ErrNoDestination   = errors.New("sink channel cannot be empty")
	ErrNotTracked      = errors.New("clan is not tracked in this guild")
	ErrStopped         = errors.New("tracker is stopped")
)

// MembershipChange is passed to membership listeners
type MembershipChange struct {
	GuildID string
	ClanTag string
	Joined  []string
	Left    []string
}

// MembershipListener is called from the tracking loop and must not call back into Configure or Deconfigure
type MembershipListener func(ctx context.Context, change *MembershipChange)

// ConfigureInput contains parameters for enabling a sink
type ConfigureInput struct {
	GuildID  string
	ClanTag  string
	SinkType models.SinkType
	Sink     *models.SinkConfig
}

// ConfigureOutput contains the stored configuration
type ConfigureOutput struct {
	Config *models.TrackingConfig
}

// DeconfigureInput contains parameters for disabling a sink
type DeconfigureInput struct {
	GuildID string
	ClanTag string

	// SinkType empty removes the whole configuration
	SinkType models.SinkType
}

// DeconfigureOutput contains the remaining configuration
type DeconfigureOutput struct {
	// Config is nil when the clan is no longer tracked
	Config *models.TrackingConfig
}
