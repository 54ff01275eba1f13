package throttle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitSpacesSameDestination(t *testing.T) {
	l := New(&Config{MinSpacing: 50 * time.Millisecond})
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "channel-1"))
	require.NoError(t, l.Wait(ctx, "channel-1"))
	require.NoError(t, l.Wait(ctx, "channel-1"))

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestWaitDoesNotCoupleDestinations(t *testing.T) {
	l := New(&Config{MinSpacing: time.Second})
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "channel-1"))
	require.NoError(t, l.Wait(ctx, "channel-2"))
	require.NoError(t, l.Wait(ctx, "channel-3"))

	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(&Config{MinSpacing: time.Hour})
	require.NoError(t, l.Wait(context.Background(), "channel-1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx, "channel-1"))
}

func TestWaitConcurrentLoops(t *testing.T) {
	l := New(&Config{MinSpacing: 20 * time.Millisecond})
	ctx := context.Background()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Wait(ctx, "shared"))
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestDisabledAndInvalid(t *testing.T) {
	l := New(nil)
	assert.NoError(t, l.Wait(context.Background(), "channel-1"))
	assert.ErrorIs(t, l.Wait(context.Background(), ""), ErrEmptyDestination)
}
