package beats

import (
	"fmt"
	"math"
)

// RoundMode selects the direction a value moves when rounded to a grid.
type RoundMode int

const (
	// RoundDownMaybe rounds down unless the value is already on the grid.
	RoundDownMaybe RoundMode = -2
	// RoundDownAlways rounds down even from a grid line.
	RoundDownAlways RoundMode = -1
	// RoundNearest rounds to the closest grid line.
	RoundNearest RoundMode = 0
	// RoundUpAlways rounds up even from a grid line.
	RoundUpAlways RoundMode = 1
	// RoundUpMaybe rounds up unless the value is already on the grid.
	RoundUpMaybe RoundMode = 2
)

// RoundToBeat rounds to the closest whole beat. A value exactly halfway
// rounds up.
func (b Beats) RoundToBeat() Beats {
	if b.ticks >= PPQN/2 {
		return New(b.beats+1, 0)
	}
	return New(b.beats, 0)
}

// RoundUpToBeat returns the next whole beat, or the value itself when it is
// already on one.
func (b Beats) RoundUpToBeat() Beats {
	if b.ticks == 0 {
		return b
	}
	return New(b.beats+1, 0)
}

// RoundDownToBeat drops the tick offset.
func (b Beats) RoundDownToBeat() Beats {
	return New(b.beats, 0)
}

// NextBeat moves one whole beat forward, even from a beat boundary.
func (b Beats) NextBeat() Beats {
	return New(b.beats+1, 0)
}

// PrevBeat moves one whole beat back, even from a beat boundary.
func (b Beats) PrevBeat() Beats {
	return New(b.beats-1, 0)
}

// RoundToSubdivision quantizes the tick offset to a grid of subdivision
// equal cells per beat. subdivision must be positive and divide PPQN evenly;
// anything else is a programming error and panics.
//
// The up and down directions reproduce the legacy quantizer used by the
// snapping code, quirks included: rounding is confined to the current beat,
// so advancing past the last grid line wraps to the top of the same beat
// instead of carrying, and a downward step that reaches tick zero wraps to
// PPQN - ticks instead of landing on the beat line. RoundNearest does carry and
// borrow across the beat boundary, except that it will not step below beat
// zero: there it returns the value unchanged.
func (b Beats) RoundToSubdivision(subdivision int, dir RoundMode) Beats {
	if subdivision <= 0 || PPQN%int32(subdivision) != 0 {
		panic(fmt.Sprintf("beats: subdivision %d does not divide PPQN %d", subdivision, PPQN))
	}

	cell := PPQN / int32(subdivision)
	beats := b.beats
	ticks := b.ticks
	mod := ticks % cell

	switch {
	case dir > 0:
		if mod == 0 && dir == RoundUpMaybe {
			// already on the grid
		} else if mod == 0 {
			ticks += cell
		} else {
			ticks += cell - mod
		}
		// Bounded to the current beat: wrap instead of carrying.
		if ticks >= PPQN {
			ticks -= PPQN
		}

	case dir < 0:
		// Step back to the previous grid line, a full cell when forced
		// off a grid line.
		difference := mod
		if mod == 0 {
			if dir == RoundDownMaybe {
				return New(beats, ticks)
			}
			difference = cell
		}
		if ticks <= difference {
			// A step that reaches tick zero wraps within the beat
			// rather than borrowing one.
			ticks = PPQN - ticks
		} else {
			ticks -= difference
		}

	default: // RoundNearest
		switch {
		case mod > cell/2:
			// closer to the next grid line
			ticks += cell - mod
			if ticks >= PPQN {
				beats++
				ticks -= PPQN
			}
		case mod > 0:
			// closer to the previous grid line
			if mod > ticks {
				if beats == 0 {
					// refuse to step below beat zero
					return b
				}
				beats--
				ticks = PPQN - mod
			} else {
				ticks -= mod
			}
		default:
			// on the grid line, nothing to do
		}
	}

	return New(beats, ticks)
}

// SnapTo rounds up to the next multiple of grid, or stays put when already
// on one. The computation goes through floating beats, so grids that are not
// exact tick multiples snap approximately.
func (b Beats) SnapTo(grid Beats) Beats {
	g := grid.Float64()
	return FromFloat(math.Ceil(b.Float64()/g) * g)
}
