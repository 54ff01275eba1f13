package dispatch

import (
	"errors"

	"github.com/KirkDiggler/clanboard/internal/models"
)

var (
	ErrNilConfig       = errors.New("config cannot be nil")
	ErrNilDelivery     = errors.New("delivery client cannot be nil")
	ErrNilThrottle     = errors.New("throttle cannot be nil")
	ErrNilClanClient   = errors.New("clan client cannot be nil")
	ErrNilLastSeenRepo = errors.New("last seen repository cannot be nil")
	ErrNilInput        = errors.New("dispatch input is incomplete")
)

// Outcome is the result of one sink in one cycle
type Outcome string

const (
	// OutcomeDelivered means at least one message was sent or edited
	OutcomeDelivered Outcome = "ok"

	// OutcomeSkipped means the sink had nothing to render this cycle
	OutcomeSkipped Outcome = "skipped"

	// OutcomePermission means the destination was unreachable; the sink is retried next cycle
	OutcomePermission Outcome = "permission"

	// OutcomeError means delivery failed for another reason
	OutcomeError Outcome = "error"
)

// DispatchInput contains one cycle's results for one tracked clan
type DispatchInput struct {
	Config    *models.TrackingConfig
	ChangeSet *models.ChangeSet

	// Clan is the snapshot the change set was computed from
	Clan *models.Clan

	// Previous is the snapshot before Clan, used to name members who left; may be nil
	Previous *models.Clan

	// Boards is owned by the calling tracking loop
	Boards BoardRenderer
}

// SinkResult reports what happened to one sink
type SinkResult struct {
	Outcome Outcome

	// Messages is the number of messages sent or edited
	Messages int

	Err error
}

// DispatchOutput reports the result of every enabled sink
type DispatchOutput struct {
	Results map[models.SinkType]*SinkResult
}
