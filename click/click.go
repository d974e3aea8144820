// Package click plays the audible metronome click.
package click

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/cadence/utils"
)

const (
	beatFreq   = 880.0
	accentFreq = 1320.0
	clickLen   = 30 * time.Millisecond
)

// Tone is a short decaying sine burst. It implements beep.Streamer and
// drains after its configured duration.
type Tone struct {
	sampleRate beep.SampleRate
	freq       float64
	pos        int
	length     int
}

// NewTone creates a burst of the given frequency and duration.
func NewTone(sr beep.SampleRate, freq float64, d time.Duration) *Tone {
	return &Tone{sampleRate: sr, freq: freq, length: sr.N(d)}
}

// Stream fills samples with the remaining portion of the burst.
func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.length {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.length {
			break
		}
		progress := float64(t.pos) / float64(t.length)
		env := (1 - progress) * (1 - progress)
		v := math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(t.sampleRate)) * env
		v = utils.Clamp(v, -1.0, 1.0)
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n++
	}
	return n, true
}

// Err implements beep.Streamer; tones cannot fail.
func (t *Tone) Err() error {
	return nil
}

// Player owns the speaker and plays clicks on demand.
type Player struct {
	sampleRate beep.SampleRate
}

// NewPlayer initializes the speaker. Initialize it once per process; the
// speaker is a global resource.
func NewPlayer(sr beep.SampleRate) (*Player, error) {
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return &Player{sampleRate: sr}, nil
}

// Click plays one click. Downbeats get a higher pitch.
func (p *Player) Click(accent bool) {
	freq := beatFreq
	if accent {
		freq = accentFreq
	}
	speaker.Play(NewTone(p.sampleRate, freq, clickLen))
}
