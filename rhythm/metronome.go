package rhythm

import (
	"math"
	"sync"
	"time"

	"github.com/robmorgan/cadence/beats"
	"k8s.io/utils/clock"
)

// Metronome anchors a musical timeline to the wall clock: a start instant,
// a tempo and a bar length. Positions on the timeline are reported as
// beats.Beats. Originally based on
// https://github.com/Deep-Symmetry/electro/blob/main/src/main/java/org/deepsymmetry/electro/Metronome.java
type Metronome struct {
	mu          sync.Mutex
	clock       clock.Clock
	startTime   time.Time
	tempo       float64
	beatsPerBar int
}

// NewMetronome creates a Metronome starting now at the given tempo.
func NewMetronome(c clock.Clock, bpm float64, beatsPerBar int) *Metronome {
	return &Metronome{
		clock:       c,
		startTime:   c.Now(),
		tempo:       bpm,
		beatsPerBar: beatsPerBar,
	}
}

// GetTempo returns the current tempo in beats per minute.
func (m *Metronome) GetTempo() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// GetBeatsPerBar returns the bar length in beats.
func (m *Metronome) GetBeatsPerBar() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beatsPerBar
}

// SetTempo sets a new tempo for the Metronome. The start time is adjusted so
// that the current beat and phase are unaffected by the tempo change.
func (m *Metronome) SetTempo(bpm float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	instant := m.clock.Now()
	interval := m.beatInterval()
	beat := markerNumber(instant, m.startTime, interval)
	phase := markerPhase(instant, m.startTime, interval)
	newInterval := beatsToMilliseconds(1, bpm)

	offsetMs := math.Round(newInterval * (phase + float64(beat) - 1))
	m.startTime = instant.Add(-time.Duration(offsetMs * float64(time.Millisecond)))
	m.tempo = bpm
}

// GetBeatInterval returns the number of milliseconds a beat lasts.
func (m *Metronome) GetBeatInterval() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beatInterval()
}

func (m *Metronome) beatInterval() float64 {
	return beatsToMilliseconds(1, m.tempo)
}

// Position returns the playhead position in musical time, truncated to the
// tick below the current instant.
func (m *Metronome) Position() beats.Beats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return beats.FromFloat(m.elapsedBeats(m.clock.Now()))
}

// TimeOfPosition returns the wall-clock instant at which the timeline
// reaches pos.
func (m *Metronome) TimeOfPosition(pos beats.Beats) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms := pos.Float64() * m.beatInterval()
	return m.startTime.Add(time.Duration(ms * float64(time.Millisecond)))
}

func (m *Metronome) elapsedBeats(instant time.Time) float64 {
	return instant.Sub(m.startTime).Seconds() * 1000 / m.beatInterval()
}

// beatsToMilliseconds calculates milliseconds for given beats and tempo.
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

// markerNumber calculates the 1-based marker number at an instant.
func markerNumber(instant, start time.Time, interval float64) int64 {
	return int64(math.Floor(instant.Sub(start).Seconds()*1000/interval)) + 1
}

// markerPhase calculates the phase of a marker at an instant.
func markerPhase(instant, start time.Time, interval float64) float64 {
	ratio := instant.Sub(start).Seconds() * 1000 / interval
	return ratio - math.Floor(ratio)
}
