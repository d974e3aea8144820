package rhythm

import (
	"context"
	"testing"
	"time"

	"github.com/robmorgan/cadence/beats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clock "k8s.io/utils/clock/testing"
)

func TestNewTickerRejectsBadResolution(t *testing.T) {
	t.Parallel()

	fc := clock.NewFakeClock(time.Unix(0, 0))
	m := NewMetronome(fc, 120.0, 4)

	assert.Panics(t, func() { NewTicker(fc, m, 0) })
	assert.Panics(t, func() { NewTicker(fc, m, 7) })
}

func TestTickerEmitsPulsesOnTheGrid(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	fc := clock.NewFakeClock(start)
	m := NewMetronome(fc, 120.0, 4)

	// Two pulses per beat at 120 bpm: one every 250ms, 960 ticks apart.
	tk := NewTicker(fc, m, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Pulse)
	done := make(chan struct{})
	go func() {
		defer close(done)
		tk.Run(ctx, out)
	}()

	// The first pulse is due immediately.
	p := <-out
	assert.Equal(t, int64(0), p.Tick)
	assert.True(t, p.Position.IsZero())
	assert.Equal(t, start, p.At)

	// The second pulse waits for the fake clock.
	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(250 * time.Millisecond)

	p = <-out
	assert.Equal(t, int64(1), p.Tick)
	assert.True(t, p.Position.Equal(beats.New(0, 960)))
	assert.Equal(t, start.Add(250*time.Millisecond), p.At)

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(250 * time.Millisecond)

	p = <-out
	assert.True(t, p.Position.Equal(beats.New(1, 0)))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop on cancel")
	}
}
