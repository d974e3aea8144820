// Package midifile renders sequences to and from standard MIDI files.
package midifile

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/cadence/beats"
	"github.com/robmorgan/cadence/sequence"
	"github.com/robmorgan/cadence/utils"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

// Resolution is the SMF tick resolution. It matches the native PPQN so
// positions export tick for tick.
const Resolution = smf.MetricTicks(beats.PPQN)

type timedMessage struct {
	tick int64
	off  bool
	msg  midi.Message
}

// Write renders the sequence as a multi-track SMF at the native resolution.
// Events before position zero are clamped to zero.
func Write(s *sequence.Sequence, path string) error {
	mf := smf.New()
	mf.TimeFormat = Resolution

	var meta smf.Track
	meta.Add(0, smf.MetaTrackSequenceName(s.Name))
	meta.Add(0, smf.MetaTempo(s.Tempo))
	meta.Close(0)
	mf.Tracks = append(mf.Tracks, meta)

	for _, tr := range s.Tracks {
		msgs := make([]timedMessage, 0, 2*len(tr.Events))
		for _, e := range tr.Events {
			start := utils.Max(e.At.ToTicks(), 0)
			end := utils.Max(e.End().ToTicks(), 0)
			msgs = append(msgs,
				timedMessage{tick: start, msg: midi.NoteOn(tr.Channel, e.Note, e.Velocity)},
				timedMessage{tick: end, off: true, msg: midi.NoteOff(tr.Channel, e.Note)},
			)
		}
		// Note-offs sort before note-ons at the same tick so back-to-back
		// notes release before they retrigger.
		slices.SortStableFunc(msgs, func(a, b timedMessage) bool {
			if a.tick != b.tick {
				return a.tick < b.tick
			}
			return a.off && !b.off
		})

		var out smf.Track
		out.Add(0, smf.MetaTrackSequenceName(tr.Name))
		prev := int64(0)
		for _, m := range msgs {
			out.Add(uint32(m.tick-prev), m.msg)
			prev = m.tick
		}
		out.Close(0)
		mf.Tracks = append(mf.Tracks, out)
	}

	if err := mf.WriteFile(path); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}

// Read builds a sequence from a standard MIDI file. Positions are converted
// from the file's resolution, so files not written at the native PPQN import
// lossily.
func Read(path string) (s *sequence.Sequence, err error) {
	// the gomidi SMF reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, errors.WithStackTrace(fmt.Errorf("reading %s: %v", path, r))
		}
	}()

	mf, err := smf.ReadFile(path)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	metric, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.WithStackTrace(fmt.Errorf("%s: SMPTE time format is not supported", path))
	}
	resolution := uint32(metric)

	out := sequence.New("", 120.0)

	for _, track := range mf.Tracks {
		var (
			cur      *sequence.Track
			absTicks int64
			name     string
			bpm      float64
			open     = map[[2]uint8]int{} // (channel, key) -> event index
		)

		for _, evt := range track {
			absTicks += int64(evt.Delta)

			var channel, key, velocity uint8
			switch {
			case evt.Message.GetMetaTrackName(&name):
				if out.Name == "" {
					out.Name = name
				}
			case evt.Message.GetMetaTempo(&bpm):
				out.Tempo = bpm
			case evt.Message.GetNoteStart(&channel, &key, &velocity):
				if cur == nil {
					cur = out.AddTrack(name, channel)
				}
				open[[2]uint8{channel, key}] = len(cur.Events)
				cur.Events = append(cur.Events, sequence.Event{
					At:       beats.TicksAtRate(absTicks, resolution),
					Note:     key,
					Velocity: velocity,
				})
			case evt.Message.GetNoteEnd(&channel, &key):
				if cur == nil {
					continue
				}
				if i, found := open[[2]uint8{channel, key}]; found {
					e := &cur.Events[i]
					e.Length = beats.TicksAtRate(absTicks, resolution).Sub(e.At)
					delete(open, [2]uint8{channel, key})
				}
			}
		}

		if cur != nil {
			cur.Sort()
		}
	}

	return out, nil
}
