package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// JWTSecret signs and verifies the bearer tokens that identify inventory owners.
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// JWTIssuer is stamped into issued tokens and required on incoming ones when set.
	JWTIssuer string `mapstructure:"jwt_issuer" default:"inventory-tracker"`
	// TokenTTLHours is the lifetime of tokens issued by the token command.
	TokenTTLHours int `mapstructure:"token_ttl_hours" default:"24"`
	// BodyLimitMB caps request bodies, mostly relevant for image uploads.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"8"`
}

// TokenTTL returns the configured token lifetime, falling back to a day.
func (c Config) TokenTTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 8 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}
