package midifile

import (
	"path/filepath"
	"testing"

	"github.com/robmorgan/cadence/beats"
	"github.com/robmorgan/cadence/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	s := sequence.New("groove", 100.0)
	tr := s.AddTrack("bass", 1)
	tr.AddEvent(sequence.Event{At: beats.New(0, 480), Length: beats.New(0, 480), Note: 40, Velocity: 100})
	tr.AddEvent(sequence.Event{At: beats.New(2, 0), Length: beats.New(1, 0), Note: 43, Velocity: 90})

	path := filepath.Join(t.TempDir(), "groove.mid")
	require.NoError(t, Write(s, path))

	got, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "groove", got.Name)
	assert.InDelta(t, 100.0, got.Tempo, 1e-6)
	require.Len(t, got.Tracks, 1)
	assert.Equal(t, uint8(1), got.Tracks[0].Channel)

	events := got.Tracks[0].Events
	require.Len(t, events, 2)

	// The file resolution matches PPQN, so positions survive exactly.
	assert.True(t, events[0].At.Equal(beats.New(0, 480)))
	assert.True(t, events[0].Length.Equal(beats.New(0, 480)))
	assert.Equal(t, uint8(40), events[0].Note)
	assert.Equal(t, uint8(100), events[0].Velocity)
	assert.True(t, events[1].At.Equal(beats.New(2, 0)))
	assert.True(t, events[1].Length.Equal(beats.New(1, 0)))
}

func TestReadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}
