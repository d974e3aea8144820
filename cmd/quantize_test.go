package cmd

import (
	"testing"

	"github.com/robmorgan/cadence/beats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundMode(t *testing.T) {
	t.Parallel()

	tests := map[string]beats.RoundMode{
		"nearest":      beats.RoundNearest,
		"up":           beats.RoundUpAlways,
		"up-or-stay":   beats.RoundUpMaybe,
		"down":         beats.RoundDownAlways,
		"down-or-stay": beats.RoundDownMaybe,
	}
	for in, want := range tests {
		got, err := parseRoundMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseRoundMode("sideways")
	assert.Error(t, err)
}
