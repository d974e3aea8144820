package sequence

import (
	"encoding/json"
	"os"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/cadence/beats"
	"golang.org/x/exp/slices"
)

// Event is a single note placed on the timeline.
type Event struct {
	At       beats.Beats `json:"at"`
	Length   beats.Beats `json:"length"`
	Note     uint8       `json:"note"`
	Velocity uint8       `json:"velocity"`
}

// End returns the position at which the event stops sounding.
func (e Event) End() beats.Beats {
	return e.At.Add(e.Length)
}

// Track is a named lane of events sharing a MIDI channel.
type Track struct {
	Name    string  `json:"name"`
	Channel uint8   `json:"channel"`
	Events  []Event `json:"events"`
}

// Sequence is a complete arrangement: a tempo and a set of tracks.
type Sequence struct {
	Name   string  `json:"name"`
	Tempo  float64 `json:"tempo"`
	Tracks []Track `json:"tracks"`
}

// New creates an empty sequence.
func New(name string, tempo float64) *Sequence {
	return &Sequence{Name: name, Tempo: tempo}
}

// AddTrack appends a new track and returns a pointer to it. The pointer is
// only valid until the next AddTrack call.
func (s *Sequence) AddTrack(name string, channel uint8) *Track {
	s.Tracks = append(s.Tracks, Track{Name: name, Channel: channel})
	return &s.Tracks[len(s.Tracks)-1]
}

// AddEvent places an event on the track, keeping events in timeline order.
func (t *Track) AddEvent(e Event) {
	t.Events = append(t.Events, e)
	t.Sort()
}

// Sort orders events by position. Events at the same position keep their
// insertion order.
func (t *Track) Sort() {
	slices.SortStableFunc(t.Events, func(a, b Event) bool {
		return a.At.Less(b.At)
	})
}

// Quantize snaps every event start to a grid of subdivision cells per beat.
// Lengths are untouched. See beats.RoundToSubdivision for the exact rounding
// semantics per mode.
func (t *Track) Quantize(subdivision int, dir beats.RoundMode) {
	for i := range t.Events {
		t.Events[i].At = t.Events[i].At.RoundToSubdivision(subdivision, dir)
	}
	t.Sort()
}

// Quantize applies Track.Quantize to every track.
func (s *Sequence) Quantize(subdivision int, dir beats.RoundMode) {
	for i := range s.Tracks {
		s.Tracks[i].Quantize(subdivision, dir)
	}
}

// End returns the position at which the last event in any track stops, or
// zero for an empty sequence.
func (s *Sequence) End() beats.Beats {
	end := beats.New(0, 0)
	for _, t := range s.Tracks {
		for _, e := range t.Events {
			if e.End().Greater(end) {
				end = e.End()
			}
		}
	}
	return end
}

// Save writes the sequence as indented JSON. Positions serialize field for
// field, so saved sequences round-trip tick for tick.
func (s *Sequence) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.WithStackTrace(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// Load reads a sequence saved by Save.
func Load(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	var s Sequence
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	return &s, nil
}
