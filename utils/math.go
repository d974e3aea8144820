package utils

import "golang.org/x/exp/constraints"

// Number is any ordered numeric type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Min returns the smaller of a and b.
func Min[N Number](a, b N) N {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[N Number](a, b N) N {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the range [lo, hi].
func Clamp[N Number](v, lo, hi N) N {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Min(Max(v, lo), hi)
}

// Abs returns the magnitude of v.
func Abs[N constraints.Signed | constraints.Float](v N) N {
	if v < 0 {
		return -v
	}
	return v
}
