package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Workers:   0,
			QueueSize: 0,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Bench: BenchConfig{
			Requests: 1000,
			Timeout:  30 * time.Second,
		},
	}
}

// setDefaults registers every key with viper. Keys without a default are
// invisible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("pool.workers", d.Pool.Workers)
	v.SetDefault("pool.queue_size", d.Pool.QueueSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("bench.requests", d.Bench.Requests)
	v.SetDefault("bench.timeout", d.Bench.Timeout)
}
