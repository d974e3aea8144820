package rhythm

import (
	"context"
	"fmt"
	"time"

	"github.com/robmorgan/cadence/beats"
	"github.com/robmorgan/cadence/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Pulse is one tick of the timeline at the ticker's resolution.
type Pulse struct {
	// Tick is the monotonically increasing pulse index, starting at zero.
	Tick int64

	// Position is the musical position of the pulse.
	Position beats.Beats

	// At is the wall-clock instant the pulse was scheduled for.
	At time.Time
}

// Ticker emits Pulses at a fixed subdivision of the beat. Each wait is
// recomputed from the metronome's timeline rather than chained from the
// previous pulse, so scheduling error does not accumulate and tempo changes
// take effect on the next pulse.
type Ticker struct {
	clock         clock.Clock
	metronome     *Metronome
	ticksPerPulse int32
}

// NewTicker creates a Ticker emitting pulsesPerBeat pulses per beat.
// pulsesPerBeat must divide beats.PPQN evenly; 24 matches MIDI clock.
func NewTicker(c clock.Clock, m *Metronome, pulsesPerBeat int) *Ticker {
	if pulsesPerBeat < 1 || beats.PPQN%int32(pulsesPerBeat) != 0 {
		panic(fmt.Sprintf("rhythm: pulses per beat %d does not divide PPQN %d", pulsesPerBeat, beats.PPQN))
	}
	return &Ticker{
		clock:         c,
		metronome:     m,
		ticksPerPulse: beats.PPQN / int32(pulsesPerBeat),
	}
}

// Run emits pulses on out until ctx is canceled. It blocks, so call it from
// its own goroutine.
func (t *Ticker) Run(ctx context.Context, out chan<- Pulse) {
	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{
		"tempo":           t.metronome.GetTempo(),
		"ticks_per_pulse": t.ticksPerPulse,
	}).Info("ticker started")

	for tick := int64(0); ; tick++ {
		pos := beats.Ticks(tick * int64(t.ticksPerPulse))
		target := t.metronome.TimeOfPosition(pos)

		if wait := target.Sub(t.clock.Now()); wait > 0 {
			timer := t.clock.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info("ticker stopped")
				return
			case <-timer.C():
			}
		}

		select {
		case <-ctx.Done():
			log.Info("ticker stopped")
			return
		case out <- Pulse{Tick: tick, Position: pos, At: target}:
		}
	}
}
