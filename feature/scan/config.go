package scan

import "time"

// Config holds configuration for the QR decoder.
type Config struct {
	// Workers is the number of concurrent decodes across all owners.
	Workers int `mapstructure:"workers" default:"4"`
	// TimeoutSeconds bounds a single decode.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// MaxPixels caps width*height of uploaded images, checked before decoding.
	MaxPixels int `mapstructure:"max_pixels" default:"16000000"`
}

// DefaultMaxPixels applies when MaxPixels is unset.
const DefaultMaxPixels = 16_000_000

// Timeout returns the decode timeout, falling back to ten seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PixelLimit returns MaxPixels, or DefaultMaxPixels when unset.
func (c Config) PixelLimit() int {
	if c.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return c.MaxPixels
}
