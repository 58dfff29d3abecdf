package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"inventory-tracker/core/database"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/notify"
	"inventory-tracker/core/server"
	"inventory-tracker/core/storage"
	"inventory-tracker/feature/insights"
	"inventory-tracker/feature/inventory"
	"inventory-tracker/feature/scan"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Each section is owned
// by the package that consumes it.
type Config struct {
	Server    server.Config    `mapstructure:"server"`
	Storage   storage.Config   `mapstructure:"storage"`
	Log       logger.Config    `mapstructure:"log"`
	Database  database.Config  `mapstructure:"database"`
	Inventory inventory.Config `mapstructure:"inventory"`
	Insights  insights.Config  `mapstructure:"insights"`
	Notify    notify.Config    `mapstructure:"notify"`
	Scan      scan.Config      `mapstructure:"scan"`
}

// LoadConfig reads dir/.env (when present) and the environment, applies the
// `default` tags and validates the result.
func LoadConfig(dir string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, reflect.TypeOf(Config{}), "")

	// INSIGHTS_API_KEY -> insights.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every setting that would make a component fail to start.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverSQLite, "":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported value %q", c.Database.Driver))
	}
	if _, err := c.Inventory.Location(); err != nil {
		errs = append(errs, fmt.Errorf("inventory.timezone: %w", err))
	}

	switch c.Insights.Provider {
	case insights.ProviderLocal, "":
	case insights.ProviderGemini:
		if c.Insights.APIKey == "" {
			errs = append(errs, errors.New("insights.api_key: required by the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("insights.provider: unsupported value %q", c.Insights.Provider))
	}
	switch c.Insights.Cache {
	case insights.CacheMemory, insights.CacheRedis, insights.CacheNone, "":
	default:
		errs = append(errs, fmt.Errorf("insights.cache: unsupported value %q", c.Insights.Cache))
	}

	switch c.Notify.Driver {
	case notify.DriverLog, notify.DriverAMQP, "":
	default:
		errs = append(errs, fmt.Errorf("notify.driver: unsupported value %q", c.Notify.Driver))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// bindValues walks the struct type and registers every `mapstructure` key
// with its `default` tag, so AutomaticEnv can see keys nobody set.
func bindValues(v *viper.Viper, t reflect.Type, prefix string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, field.Type, key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
