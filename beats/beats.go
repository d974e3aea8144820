package beats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// PPQN is the number of ticks (pulses) in one quarter-note beat. It is the
// fixed resolution shared by every Beats value in the process. Tick counts
// from systems running at another resolution are meaningless here until they
// pass through TicksAtRate.
const PPQN int32 = 1920

// Beats is a position or duration in musical time: a whole number of beats
// plus a tick offset within the beat. Values are kept normalized so that
// ticks is always in [0, PPQN), with negative positions borrowing into the
// beat below. The identity total = beats*PPQN + ticks always holds.
//
// Beats is a plain value type. Operations return new values and never mutate
// their operands, so values can be copied and shared freely.
type Beats struct {
	beats int32
	ticks int32
}

// New returns a normalized Beats from a whole-beat count and a tick offset.
func New(beats, ticks int32) Beats {
	b := Beats{beats: beats, ticks: ticks}
	b.normalize()
	return b
}

// FromInt returns a Beats of n whole beats.
func FromInt(n int32) Beats {
	return New(n, 0)
}

// FromFloat returns f as a Beats, truncating the fractional part toward zero
// at tick resolution. The truncation is deterministic but lossy; use
// FromFloatRounded when nearest-tick behavior is wanted.
func FromFloat(f float64) Beats {
	whole, frac := math.Modf(f)
	return New(int32(whole), int32(frac*float64(PPQN)))
}

// FromFloatRounded returns f as a Beats with the fractional part rounded to
// the nearest tick.
func FromFloatRounded(f float64) Beats {
	whole, frac := math.Modf(f)
	return New(int32(whole), int32(math.Round(frac*float64(PPQN))))
}

// Ticks returns a Beats from a tick count at the native PPQN resolution.
func Ticks(t int64) Beats {
	return New(int32(t/int64(PPQN)), int32(t%int64(PPQN)))
}

// TicksAtRate converts a tick count at an external resolution. Setting ppqn
// to the number of samples per beat converts from frames. The arithmetic
// truncates, so the conversion is lossy whenever ppqn does not divide PPQN.
func TicksAtRate(t int64, ppqn uint32) Beats {
	r := int64(ppqn)
	return New(int32(t/r), int32((t%r)*int64(PPQN)/r))
}

// OneTick is the smallest representable positive increment.
func OneTick() Beats {
	return Beats{beats: 0, ticks: 1}
}

// Lowest is the most negative representable value, used as an
// unbounded-early sentinel. It sits outside the normalized range and is only
// meaningful for comparison.
func Lowest() Beats {
	return Beats{beats: math.MinInt32, ticks: math.MinInt32}
}

// Max is the most positive representable value, the unbounded-late
// counterpart to Lowest.
func Max() Beats {
	return Beats{beats: math.MaxInt32, ticks: math.MaxInt32}
}

// normalize re-establishes the representation invariant: ticks in [0, PPQN)
// with beats carrying the remainder. Borrows are resolved before carries so
// that negative tick deltas from subtraction land in the beat below.
func (b *Beats) normalize() {
	for b.ticks < 0 {
		b.beats--
		b.ticks += PPQN
	}
	for b.ticks >= PPQN {
		b.beats++
		b.ticks -= PPQN
	}
}

// BeatCount returns the whole-beat component.
func (b Beats) BeatCount() int32 {
	return b.beats
}

// TickCount returns the sub-beat tick component.
func (b Beats) TickCount() int32 {
	return b.ticks
}

// Float64 returns the value as a floating beat count.
func (b Beats) Float64() float64 {
	return float64(b.beats) + float64(b.ticks)/float64(PPQN)
}

// ToTicks returns the value as a total tick count at the native resolution.
func (b Beats) ToTicks() int64 {
	return int64(b.beats)*int64(PPQN) + int64(b.ticks)
}

// ToTicksAtRate returns the value as a tick count at an external resolution.
// The tick component is scaled with truncating integer arithmetic, so the
// result is lossy when ppqn and PPQN are not compatible.
func (b Beats) ToTicksAtRate(ppqn uint32) int64 {
	return int64(b.beats)*int64(ppqn) + int64(b.ticks)*int64(ppqn)/int64(PPQN)
}

// IsZero reports whether the value is exactly zero beats and zero ticks.
func (b Beats) IsZero() bool {
	return b.beats == 0 && b.ticks == 0
}

// Add returns b + o. Component-wise addition followed by normalization is
// equivalent to adding total tick counts.
func (b Beats) Add(o Beats) Beats {
	return New(b.beats+o.beats, b.ticks+o.ticks)
}

// Sub returns b - o.
func (b Beats) Sub(o Beats) Beats {
	return New(b.beats-o.beats, b.ticks-o.ticks)
}

// AddInt returns b shifted forward by n whole beats. The tick offset is
// untouched.
func (b Beats) AddInt(n int32) Beats {
	return New(b.beats+n, b.ticks)
}

// SubInt returns b shifted back by n whole beats.
func (b Beats) SubInt(n int32) Beats {
	return New(b.beats-n, b.ticks)
}

// AddFloat returns b + f, computed in floating beats. The result inherits
// FromFloat's truncation.
func (b Beats) AddFloat(f float64) Beats {
	return FromFloat(b.Float64() + f)
}

// SubFloat returns b - f, computed in floating beats.
func (b Beats) SubFloat(f float64) Beats {
	return FromFloat(b.Float64() - f)
}

// Neg returns the value with its sign flipped.
func (b Beats) Neg() Beats {
	return New(-b.beats, -b.ticks)
}

// Mul scales b by an integer factor. Both components scale exactly.
func Mul[N constraints.Integer](b Beats, factor N) Beats {
	return New(b.beats*int32(factor), b.ticks*int32(factor))
}

// MulFloat scales b by a real factor. Each component is scaled and truncated
// independently, so the tick part can lose up to one tick of precision; this
// matches the historical behavior. Use DivFloat for the inverse, which goes
// through a single tick conversion and does not have this problem.
func MulFloat(b Beats, factor float64) Beats {
	return New(int32(float64(b.beats)*factor), int32(float64(b.ticks)*factor))
}

// Div divides b by an integer factor, truncating at tick resolution.
func Div[N constraints.Integer](b Beats, factor N) Beats {
	return Ticks(b.ToTicks() / int64(factor))
}

// DivFloat divides b by a real factor, truncating at tick resolution.
func DivFloat(b Beats, factor float64) Beats {
	return Ticks(int64(float64(b.ToTicks()) / factor))
}

// Equal reports exact equality of the normalized fields.
func (b Beats) Equal(o Beats) bool {
	return b.beats == o.beats && b.ticks == o.ticks
}

// Less reports whether b is strictly earlier than o. Comparison between two
// Beats is exact, with no tolerance.
func (b Beats) Less(o Beats) bool {
	return b.beats < o.beats || (b.beats == o.beats && b.ticks < o.ticks)
}

// LessEqual reports whether b is earlier than or equal to o.
func (b Beats) LessEqual(o Beats) bool {
	return b.beats < o.beats || (b.beats == o.beats && b.ticks <= o.ticks)
}

// Greater reports whether b is strictly later than o.
func (b Beats) Greater(o Beats) bool {
	return b.beats > o.beats || (b.beats == o.beats && b.ticks > o.ticks)
}

// GreaterEqual reports whether b is later than or equal to o.
func (b Beats) GreaterEqual(o Beats) bool {
	return b.beats > o.beats || (b.beats == o.beats && b.ticks >= o.ticks)
}

// EqualInt reports whether the whole-beat component is exactly n. The tick
// offset is deliberately ignored, so Beats(2, 5).EqualInt(2) is true.
func (b Beats) EqualInt(n int32) bool {
	return b.beats == n
}

// EqualFloat reports equality against a floating beat count within one
// tick's tolerance. The same tolerance governs the ordering comparisons
// against floats: values within one tick compare as equal rather than
// flickering between less and greater at tick boundaries.
func (b Beats) EqualFloat(f float64) bool {
	return math.Abs(b.Float64()-f) <= 1.0/float64(PPQN)
}

// LessFloat reports whether b is earlier than f by more than one tick.
func (b Beats) LessFloat(f float64) bool {
	if b.EqualFloat(f) {
		return false
	}
	return b.Float64() < f
}

// LessEqualFloat reports whether b is earlier than or within one tick of f.
func (b Beats) LessEqualFloat(f float64) bool {
	return b.EqualFloat(f) || b.LessFloat(f)
}

// GreaterFloat reports whether b is later than f by more than one tick.
func (b Beats) GreaterFloat(f float64) bool {
	if b.EqualFloat(f) {
		return false
	}
	return b.Float64() > f
}

// GreaterEqualFloat reports whether b is later than or within one tick of f.
func (b Beats) GreaterEqualFloat(f float64) bool {
	return b.EqualFloat(f) || b.GreaterFloat(f)
}

// String renders the value as "<beats>.<ticks>". The dot separates the two
// raw fields; it is not a decimal fraction.
func (b Beats) String() string {
	return fmt.Sprintf("%d.%d", b.beats, b.ticks)
}

// Parse reads a floating beat count, so "2.5" is two and a half beats. It is
// not the inverse of String, which prints the raw tick count after the dot;
// the asymmetry is kept for compatibility with existing session data. The
// value is reconstructed with the truncating constructor.
func Parse(s string) (Beats, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Beats{}, fmt.Errorf("parsing beats %q: %w", s, err)
	}
	return FromFloat(f), nil
}

type beatsJSON struct {
	Beats int32 `json:"beats"`
	Ticks int32 `json:"ticks"`
}

// MarshalJSON encodes both fields exactly, unlike the legacy textual form,
// so persisted positions survive a round trip tick for tick.
func (b Beats) MarshalJSON() ([]byte, error) {
	return json.Marshal(beatsJSON{Beats: b.beats, Ticks: b.ticks})
}

// UnmarshalJSON decodes and renormalizes a persisted value.
func (b *Beats) UnmarshalJSON(data []byte) error {
	var v beatsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = New(v.Beats, v.Ticks)
	return nil
}
