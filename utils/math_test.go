package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, Clamp(10, 0, 5))
	assert.Equal(t, 0.0, Clamp(-1.5, 0.0, 5.0))
	assert.Equal(t, 3, Clamp(3, 0, 5))
	// Swapped bounds still clamp.
	assert.Equal(t, 5, Clamp(10, 5, 0))
}

func TestMinMaxAbs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int32(-2), Min(int32(-2), int32(7)))
	assert.Equal(t, 7.5, Max(7.5, -2.0))
	assert.Equal(t, 4, Abs(-4))
	assert.Equal(t, 0.25, Abs(0.25))
}
