package rhythm

import (
	"time"

	"github.com/robmorgan/cadence/beats"
)

// Snapshot captures the metronome's timeline state at a single instant, so
// callers can do consistent beat and bar math without re-reading a moving
// clock.
type Snapshot struct {
	// Instant is the point in time the snapshot was computed for.
	Instant time.Time

	// Tempo is the tempo in beats per minute at the instant.
	Tempo float64

	// BeatsPerBar is the metronome's bar length in beats.
	BeatsPerBar int

	// Position is the musical position at the instant.
	Position beats.Beats

	// Beat is the 1-based beat number.
	Beat int64

	// BeatPhase is the progress through the current beat, in [0, 1).
	BeatPhase float64

	// Bar is the 1-based bar number.
	Bar int64
}

// GetSnapshot captures the metronome's state at the current instant.
func (m *Metronome) GetSnapshot() Snapshot {
	return m.GetSnapshotAt(m.clock.Now())
}

// GetSnapshotAt captures the metronome's state at an arbitrary instant.
func (m *Metronome) GetSnapshotAt(instant time.Time) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	interval := m.beatInterval()
	beat := markerNumber(instant, m.startTime, interval)

	return Snapshot{
		Instant:     instant,
		Tempo:       m.tempo,
		BeatsPerBar: m.beatsPerBar,
		Position:    beats.FromFloat(m.elapsedBeats(instant)),
		Beat:        beat,
		BeatPhase:   markerPhase(instant, m.startTime, interval),
		Bar:         (beat-1)/int64(m.beatsPerBar) + 1,
	}
}

// BeatWithinBar returns the 1-based beat number relative to the start of its
// bar.
func (s Snapshot) BeatWithinBar() int {
	return int((s.Beat-1)%int64(s.BeatsPerBar)) + 1
}

// IsDownBeat reports whether the snapshot's beat is the first in its bar.
func (s Snapshot) IsDownBeat() bool {
	return s.BeatWithinBar() == 1
}
