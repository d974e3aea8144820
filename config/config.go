package config

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/cadence/beats"
)

// Config represents options that configure the global behavior of the program.
type Config struct {
	// DefaultTempo is the starting tempo in beats per minute.
	DefaultTempo float64

	// BeatsPerBar is the bar length used for click accents and bar math.
	BeatsPerBar int

	// PulsesPerBeat is the ticker resolution. It must divide beats.PPQN
	// evenly; 24 matches MIDI clock.
	PulsesPerBeat int

	// Click enables the audible metronome click.
	Click bool

	// OSC configures the sync broadcaster.
	OSC OSCConfig
}

// OSCConfig holds the address the sync broadcaster sends to.
type OSCConfig struct {
	Host string
	Port int
}

// NewConfig creates a Config with reasonable defaults for real usage.
func NewConfig() (Config, error) {
	// TODO - support passing in a config file one day
	return Config{
		DefaultTempo:  120.0,
		BeatsPerBar:   4,
		PulsesPerBeat: 24,
		Click:         false,
		OSC: OSCConfig{
			Host: "127.0.0.1",
			Port: 9000,
		},
	}, nil
}

// Validate checks the config for values the engine cannot run with.
func (c Config) Validate() error {
	if c.DefaultTempo <= 0 {
		return errors.WithStackTrace(fmt.Errorf("tempo must be positive, got %v", c.DefaultTempo))
	}
	if c.BeatsPerBar < 1 {
		return errors.WithStackTrace(fmt.Errorf("beats per bar must be at least 1, got %d", c.BeatsPerBar))
	}
	if c.PulsesPerBeat < 1 || beats.PPQN%int32(c.PulsesPerBeat) != 0 {
		return errors.WithStackTrace(fmt.Errorf("pulses per beat must divide %d evenly, got %d", beats.PPQN, c.PulsesPerBeat))
	}
	if c.OSC.Port < 0 || c.OSC.Port > 65535 {
		return errors.WithStackTrace(fmt.Errorf("invalid OSC port %d", c.OSC.Port))
	}
	return nil
}
