package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source used by the tracking loops.
// clockwork.FakeClock satisfies it for tests.
//
//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/KirkDiggler/clanboard/internal/common/clock Clock
type Clock interface {
	Now() time.Time

	// NewTimer is used for the delay between cycles so a cancelled loop can release it
	NewTimer(d time.Duration) clockwork.Timer
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct {
	clockwork.Clock
}

// New returns a clock backed by the real system time
func New() *DefaultClock {
	return &DefaultClock{Clock: clockwork.NewRealClock()}
}
