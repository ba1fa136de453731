package logger

// Config configures every logger produced by one Manager.
type Config struct {
	Level    string `mapstructure:"level"`    // debug, info, warn, error
	Encoding string `mapstructure:"encoding"` // json or console

	EnableConsole bool `mapstructure:"enable_console"`
	EnableFile    bool `mapstructure:"enable_file"`

	// File output (ignored unless EnableFile is set)
	Dir        string `mapstructure:"dir"`
	MaxSize    int    `mapstructure:"max_size"` // MB per file
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// ApplyDefaults fills zero-valued fields in place.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Encoding == "" {
		c.Encoding = "console"
	}
	if !c.EnableConsole && !c.EnableFile {
		c.EnableConsole = true
	}
	if c.Dir == "" {
		c.Dir = "logs"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 30
	}
}

// DefaultConfig returns a console-only info-level configuration.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}
