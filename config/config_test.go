package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaultsAreValid(t *testing.T) {
	t.Parallel()

	c, err := NewConfig()
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, 120.0, c.DefaultTempo)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	base, err := NewConfig()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tempo", func(c *Config) { c.DefaultTempo = 0 }},
		{"negative tempo", func(c *Config) { c.DefaultTempo = -10 }},
		{"empty bar", func(c *Config) { c.BeatsPerBar = 0 }},
		{"non-dividing pulse rate", func(c *Config) { c.PulsesPerBeat = 7 }},
		{"bad port", func(c *Config) { c.OSC.Port = 70000 }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := base
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
