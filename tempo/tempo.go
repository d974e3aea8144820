package tempo

import (
	"math"
	"time"

	"github.com/fogleman/ease"
	"github.com/robmorgan/cadence/beats"
	"golang.org/x/exp/slices"
)

// Curve shapes a tempo ramp. It maps ramp progress in [0, 1] to eased
// progress; any function from github.com/fogleman/ease fits.
type Curve func(float64) float64

// DefaultRamp is the curve used for musically smooth tempo transitions: it
// accelerates gently out of the old tempo and settles into the new one.
var DefaultRamp Curve = ease.InOutQuad

// Point sets the tempo at a position on the timeline. With a nil Ramp the
// tempo jumps to BPM at At; with a Ramp the tempo eases from the previous
// point's BPM, reaching BPM at At.
type Point struct {
	At   beats.Beats
	BPM  float64
	Ramp Curve
}

// Map is a piecewise tempo automation over musical time. It is not safe for
// concurrent mutation; build it up front or guard it externally.
type Map struct {
	points []Point
}

// NewMap creates a tempo map holding initialBPM from position zero onward.
func NewMap(initialBPM float64) *Map {
	return &Map{
		points: []Point{{At: beats.New(0, 0), BPM: initialBPM}},
	}
}

// AddPoint inserts a tempo point, keeping the map sorted by position. A
// point at an existing position replaces it.
func (m *Map) AddPoint(p Point) {
	for i := range m.points {
		if m.points[i].At.Equal(p.At) {
			m.points[i] = p
			return
		}
	}
	m.points = append(m.points, p)
	slices.SortStableFunc(m.points, func(a, b Point) bool {
		return a.At.Less(b.At)
	})
}

// Points returns the map's points in timeline order.
func (m *Map) Points() []Point {
	out := make([]Point, len(m.points))
	copy(out, m.points)
	return out
}

// BPMAt returns the tempo in effect at pos.
func (m *Map) BPMAt(pos beats.Beats) float64 {
	return m.bpmAtFloat(pos.Float64())
}

func (m *Map) bpmAtFloat(x float64) float64 {
	i := m.segmentIndex(x)
	cur := m.points[i]
	if i+1 < len(m.points) {
		next := m.points[i+1]
		if next.Ramp != nil {
			span := next.At.Float64() - cur.At.Float64()
			if span > 0 {
				progress := (x - cur.At.Float64()) / span
				return cur.BPM + (next.BPM-cur.BPM)*next.Ramp(progress)
			}
		}
	}
	return cur.BPM
}

// segmentIndex returns the index of the last point at or before x.
func (m *Map) segmentIndex(x float64) int {
	idx := 0
	for i := range m.points {
		if m.points[i].At.Float64() <= x {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// rampIntegrationSteps is the trapezoid count used to integrate time across
// a ramped segment. Ramps are short in practice, so a fixed count keeps the
// error well below a millisecond.
const rampIntegrationSteps = 64

// Duration returns the wall-clock time from position zero to pos.
func (m *Map) Duration(pos beats.Beats) time.Duration {
	return m.DurationBetween(beats.New(0, 0), pos)
}

// DurationBetween returns the wall-clock time between two positions,
// negative when to is earlier than from.
func (m *Map) DurationBetween(from, to beats.Beats) time.Duration {
	if to.Less(from) {
		return -m.DurationBetween(to, from)
	}

	seconds := 0.0
	cursor := from.Float64()
	end := to.Float64()

	for i := 0; i < len(m.points) && cursor < end; i++ {
		segEnd := math.Inf(1)
		if i+1 < len(m.points) {
			segEnd = m.points[i+1].At.Float64()
		}
		if segEnd <= cursor {
			continue
		}

		hi := math.Min(end, segEnd)
		ramped := i+1 < len(m.points) && m.points[i+1].Ramp != nil
		if ramped {
			seconds += m.integrateRamp(cursor, hi)
		} else {
			seconds += (hi - cursor) * 60.0 / m.points[i].BPM
		}
		cursor = hi
	}

	return time.Duration(seconds * float64(time.Second))
}

// integrateRamp integrates beat time over a tempo ramp with the trapezoid
// rule, since eased curves have no closed-form integral in general.
func (m *Map) integrateRamp(lo, hi float64) float64 {
	h := (hi - lo) / rampIntegrationSteps
	sum := 0.0
	for s := 0; s <= rampIntegrationSteps; s++ {
		w := 1.0
		if s == 0 || s == rampIntegrationSteps {
			w = 0.5
		}
		sum += w / m.bpmAtFloat(lo+float64(s)*h)
	}
	return sum * h * 60.0
}
