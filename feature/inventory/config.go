package inventory

import (
	"fmt"
	"time"
)

// Config holds configuration for the inventory state and its sweeps.
type Config struct {
	// Timezone decides where calendar days start for expiry checks.
	Timezone string `mapstructure:"timezone" default:"UTC"`
	// SweepSchedule is the cron spec for the background expiry sweep.
	SweepSchedule string `mapstructure:"sweep_schedule" default:"@every 1h"`
	// SweepEnabled turns the background sweep on or off.
	SweepEnabled bool `mapstructure:"sweep_enabled" default:"true"`
	// WriteTimeoutSeconds bounds background batch writes.
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" default:"30"`
}

// Location resolves Timezone. An empty value is UTC.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// WriteTimeout returns the background write timeout.
func (c Config) WriteTimeout() time.Duration {
	if c.WriteTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}
