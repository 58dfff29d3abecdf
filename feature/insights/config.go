package insights

import "time"

// Providers accepted by NewGenerator.
const (
	ProviderLocal  = "local"
	ProviderGemini = "gemini"
)

// Cache backends accepted by NewCache.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds configuration for insight generation.
type Config struct {
	// Provider is "local" or "gemini".
	Provider string `mapstructure:"provider" default:"local"`
	// APIKey is the Generative Language API key used by the gemini provider.
	APIKey string `mapstructure:"api_key" default:""`
	// Model is the gemini model name.
	Model string `mapstructure:"model" default:"gemini-1.5-flash"`
	// BaseURL is the Generative Language API endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://generativelanguage.googleapis.com/v1beta"`
	// TimeoutSeconds bounds one provider call including retries.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of attempts for retryable provider errors.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// Cache is "memory", "redis" or "none".
	Cache string `mapstructure:"cache" default:"memory"`
	// RedisAddr is the redis host:port for the redis cache.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword authenticates against redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB selects the redis database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// TTLSeconds is how long a generated document is reused for an unchanged inventory.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"600"`
}

// Timeout returns the provider timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns the cache time-to-live. Zero disables caching.
func (c Config) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TTLSeconds) * time.Second
}
