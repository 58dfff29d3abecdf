package storage

import "time"

// Config holds the object storage settings for inventory exports.
type Config struct {
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket receives inventory exports.
	Bucket string `mapstructure:"bucket" default:"inventory-exports"`
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ExportPrefix is the key prefix for exported CSV snapshots.
	ExportPrefix string `mapstructure:"export_prefix" default:"exports"`
	// KeepExports is how many snapshots per owner survive a prune. Zero keeps all.
	KeepExports int `mapstructure:"keep_exports" default:"10"`
}

// Timeout returns the network timeout, 30s when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
