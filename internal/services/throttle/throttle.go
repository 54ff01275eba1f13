// Package throttle spaces out writes aimed at the same Discord channel.
// One Limiter is shared by every tracking loop.
package throttle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/KirkDiggler/clanboard/internal/metrics"
	"golang.org/x/time/rate"
)

// ErrEmptyDestination is returned when waiting on a blank destination
var ErrEmptyDestination = errors.New("destination cannot be empty")

//go:generate mockgen -package=mocks -destination=mocks/mock_throttle.go github.com/KirkDiggler/clanboard/internal/services/throttle Throttle

// Throttle blocks until a write to destination is allowed
type Throttle interface {
	Wait(ctx context.Context, destination string) error
}

// Config holds configuration for the limiter
type Config struct {
	// MinSpacing is the minimum gap between two writes to one destination
	MinSpacing time.Duration
}

// Limiter keeps one token bucket per destination, burst 1
type Limiter struct {
	spacing time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a destination limiter. A zero spacing disables throttling.
func New(cfg *Config) *Limiter {
	spacing := time.Duration(0)
	if cfg != nil && cfg.MinSpacing > 0 {
		spacing = cfg.MinSpacing
	}

	return &Limiter{
		spacing:  spacing,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the destination's spacing has elapsed or ctx is done
func (l *Limiter) Wait(ctx context.Context, destination string) error {
	if destination == "" {
		return ErrEmptyDestination
	}

	if l.spacing == 0 {
		return nil
	}

	start := time.Now()
	err := l.limiter(destination).Wait(ctx)
	metrics.ThrottleWait.Observe(time.Since(start).Seconds())

	return err
}

func (l *Limiter) limiter(destination string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[destination]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.spacing), 1)
		l.limiters[destination] = lim
	}
	return lim
}
