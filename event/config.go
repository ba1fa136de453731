package event

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config configures the registry and the logging interceptor.
type Config struct {
	Enabled              bool          `mapstructure:"enabled"`
	LogInvocations       bool          `mapstructure:"log_invocations"`
	SlowHandlerThreshold time.Duration `mapstructure:"slow_handler_threshold"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		SlowHandlerThreshold: 100 * time.Millisecond,
	}
}

// Validate checks the configuration for impossible values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SlowHandlerThreshold, validation.Min(time.Duration(0))),
	)
}

// LoadConfig unmarshals the sub-tree at key (e.g. "event") into a Config,
// starting from defaults. Missing keys keep their default values.
func LoadConfig(v *viper.Viper, key string) (Config, error) {
	cfg := DefaultConfig()
	if v != nil && v.IsSet(key) {
		if err := v.UnmarshalKey(key, &cfg); err != nil {
			return cfg, fmt.Errorf("event config %q: %w", key, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("event config %q: %w", key, err)
	}
	return cfg, nil
}
