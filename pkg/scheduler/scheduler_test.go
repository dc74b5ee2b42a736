package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresOnInterval(t *testing.T) {
	var fires atomic.Int32
	s := New(50*time.Millisecond, func(context.Context) bool {
		fires.Add(1)
		return true
	})

	ctx, cancel := context.WithTimeout(context.Background(), 280*time.Millisecond)
	defer cancel()
	err := s.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// ~5 ticks fit in the window; allow slack for slow CI.
	assert.GreaterOrEqual(t, fires.Load(), int32(2))
	assert.LessOrEqual(t, fires.Load(), int32(6))
}

func TestSchedulerCoalescesBusyTicks(t *testing.T) {
	var attempts atomic.Int32
	busy := make(chan struct{})

	s := New(30*time.Millisecond, func(context.Context) bool {
		attempts.Add(1)
		select {
		case <-busy:
			return true
		default:
			return false // pass already in flight
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := s.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Every tick still attempts; the trigger reports coalescing and the
	// scheduler keeps going rather than queueing ticks.
	assert.GreaterOrEqual(t, attempts.Load(), int32(2))
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	s := New(10*time.Millisecond, func(context.Context) bool { return true })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}
