package click

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneDrainsAfterDuration(t *testing.T) {
	t.Parallel()

	sr := beep.SampleRate(44100)
	tone := NewTone(sr, 880, 10*time.Millisecond)
	want := sr.N(10 * time.Millisecond)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := tone.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, want, total)
	require.NoError(t, tone.Err())

	// A drained tone stays drained.
	n, ok := tone.Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
}

func TestToneStaysInRangeAndDecays(t *testing.T) {
	t.Parallel()

	sr := beep.SampleRate(44100)
	tone := NewTone(sr, 880, 30*time.Millisecond)

	buf := make([][2]float64, sr.N(30*time.Millisecond))
	n, ok := tone.Stream(buf)
	require.True(t, ok)
	require.Equal(t, len(buf), n)

	for i, s := range buf {
		assert.LessOrEqual(t, s[0], 1.0, "sample %d", i)
		assert.GreaterOrEqual(t, s[0], -1.0, "sample %d", i)
		assert.Equal(t, s[0], s[1], "tone is mono, sample %d", i)
	}

	// The envelope dies out by the end of the burst.
	last := buf[len(buf)-1]
	assert.InDelta(t, 0.0, last[0], 1e-3)
}
