// internal/logger/config.go
package logger

// Config controls console verbosity and the rotated JSON log file.
type Config struct {
	Debug bool `mapstructure:"debug"`
	// LogFile is the rotated JSON log; empty disables the file core.
	LogFile string `mapstructure:"log_file"`
	// MaxSize in megabytes, MaxAge in days.
	MaxSize    int  `mapstructure:"max_size"`
	MaxAge     int  `mapstructure:"max_age"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
	Console    bool `mapstructure:"console"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "logs/sim.log",
		MaxSize:    50,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
		Console:    true,
	}
}
