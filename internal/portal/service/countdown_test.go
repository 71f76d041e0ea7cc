package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCountdownFiresOnce(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	c := newCountdown(nil)
	c.Start(20*time.Millisecond, func() { fired.Add(1) })

	require.True(t, c.Active())
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.False(t, c.Active())
	require.Zero(t, c.Remaining())
}

func TestCountdownRestartCancelsPrevious(t *testing.T) {
	t.Parallel()

	var first, second atomic.Int32
	c := newCountdown(nil)
	c.Start(30*time.Millisecond, func() { first.Add(1) })
	c.Start(30*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Zero(t, first.Load(), "replaced countdown must not fire")
}

func TestCountdownStop(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	c := newCountdown(nil)
	c.Start(20*time.Millisecond, func() { fired.Add(1) })
	c.Stop()

	require.False(t, c.Active())
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, fired.Load())
}

func TestCountdownRemainingRoundsUp(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	c := newCountdown(clock.Now)
	c.Start(10*time.Second, nil)

	require.Equal(t, 10, c.Remaining())

	clock.Advance(9*time.Second + 500*time.Millisecond)
	require.Equal(t, 1, c.Remaining())
	require.True(t, c.Active())

	clock.Advance(time.Second)
	require.Zero(t, c.Remaining())
	require.False(t, c.Active())
}
