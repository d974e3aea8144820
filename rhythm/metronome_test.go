package rhythm

import (
	"testing"
	"time"

	"github.com/robmorgan/cadence/beats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clock "k8s.io/utils/clock/testing"
)

func TestMetronomeBeatInterval(t *testing.T) {
	t.Parallel()

	fc := clock.NewFakeClock(time.Unix(0, 0))
	m := NewMetronome(fc, 120.0, 4)

	// The beat interval should be every 500ms at 120 bpm.
	assert.Equal(t, 500.0, m.GetBeatInterval())

	m.SetTempo(128.0)
	assert.Equal(t, 468.75, m.GetBeatInterval())
}

func TestMetronomePosition(t *testing.T) {
	t.Parallel()

	fc := clock.NewFakeClock(time.Unix(0, 0))
	m := NewMetronome(fc, 120.0, 4)

	assert.True(t, m.Position().IsZero())

	// One second at 120 bpm is two beats.
	fc.Step(time.Second)
	assert.True(t, m.Position().Equal(beats.New(2, 0)))

	// And half a beat more.
	fc.Step(250 * time.Millisecond)
	assert.True(t, m.Position().Equal(beats.New(2, 960)))
}

func TestSetTempoPreservesPosition(t *testing.T) {
	t.Parallel()

	fc := clock.NewFakeClock(time.Unix(0, 0))
	m := NewMetronome(fc, 120.0, 4)

	// Two and a half beats in.
	fc.Step(1250 * time.Millisecond)
	before := m.Position()
	require.True(t, before.Equal(beats.New(2, 960)))

	m.SetTempo(60.0)
	assert.True(t, m.Position().Equal(before), "tempo change must not move the playhead")

	// From here on, beats take twice as long.
	fc.Step(time.Second)
	assert.True(t, m.Position().Equal(beats.New(3, 960)))
}

func TestTimeOfPosition(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	fc := clock.NewFakeClock(start)
	m := NewMetronome(fc, 120.0, 4)

	assert.Equal(t, start.Add(500*time.Millisecond), m.TimeOfPosition(beats.New(1, 0)))
	assert.Equal(t, start.Add(1250*time.Millisecond), m.TimeOfPosition(beats.New(2, 960)))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	fc := clock.NewFakeClock(time.Unix(0, 0))
	m := NewMetronome(fc, 120.0, 4)

	s := m.GetSnapshot()
	assert.Equal(t, int64(1), s.Beat)
	assert.Equal(t, int64(1), s.Bar)
	assert.True(t, s.IsDownBeat())

	// 2.5 beats in: third beat of the first bar.
	fc.Step(1250 * time.Millisecond)
	s = m.GetSnapshot()
	assert.Equal(t, int64(3), s.Beat)
	assert.Equal(t, 3, s.BeatWithinBar())
	assert.False(t, s.IsDownBeat())
	assert.InDelta(t, 0.5, s.BeatPhase, 1e-9)
	assert.True(t, s.Position.Equal(beats.New(2, 960)))

	// 4.5 beats in: downbeat of the second bar.
	fc.Step(time.Second)
	s = m.GetSnapshot()
	assert.Equal(t, int64(5), s.Beat)
	assert.Equal(t, int64(2), s.Bar)
	assert.True(t, s.IsDownBeat())
}
