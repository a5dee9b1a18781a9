// Package config provides layered configuration for curvepool.
//
// Values are resolved in the following order (highest precedence first):
//  1. Environment variables (CURVEPOOL_* prefix, e.g. CURVEPOOL_POOL_WORKERS)
//  2. The config file passed to Load, or ./curvepool.yaml, or ~/.curvepool/config.yaml
//  3. Built-in defaults
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

// Config is the root configuration.
type Config struct {
	Pool  PoolConfig  `yaml:"pool" json:"pool" mapstructure:"pool"`
	Log   LogConfig   `yaml:"log" json:"log" mapstructure:"log"`
	Bench BenchConfig `yaml:"bench" json:"bench" mapstructure:"bench"`
}

// PoolConfig sizes the worker pool.
type PoolConfig struct {
	// Workers is the number of worker goroutines. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`

	// QueueSize bounds the number of tasks waiting for a worker. Zero means
	// 64 per worker. Submissions beyond it fail asynchronously.
	QueueSize int `yaml:"queue_size" json:"queue_size" mapstructure:"queue_size"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level      string `yaml:"level" json:"level" mapstructure:"level"`
	File       string `yaml:"file" json:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" json:"compress" mapstructure:"compress"`
}

// BenchConfig drives the bench command.
type BenchConfig struct {
	Requests int           `yaml:"requests" json:"requests" mapstructure:"requests"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.ErrConfigNil
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return out, nil
}
