package config

import (
	"github.com/rs/zerolog"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

// maxWorkers caps the pool well above any sensible core count.
const maxWorkers = 4096

// Validate checks cfg and returns the first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validatePool(&cfg.Pool); err != nil {
		return err
	}
	if err := validateLog(&cfg.Log); err != nil {
		return err
	}
	return validateBench(&cfg.Bench)
}

func validatePool(cfg *PoolConfig) error {
	if cfg.Workers < 0 || cfg.Workers > maxWorkers {
		return errors.Wrapf(errors.ErrConfigInvalidPool,
			"pool.workers must be between 0 and %d, got %d", maxWorkers, cfg.Workers)
	}
	if cfg.QueueSize < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidPool,
			"pool.queue_size must not be negative, got %d", cfg.QueueSize)
	}
	return nil
}

func validateLog(cfg *LogConfig) error {
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidLog, "log.level %q is not a level", cfg.Level)
	}
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.Wrap(errors.ErrConfigInvalidLog, "log rotation limits must not be negative")
	}
	return nil
}

func validateBench(cfg *BenchConfig) error {
	if cfg.Requests < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidBench,
			"bench.requests must be positive, got %d", cfg.Requests)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidBench,
			"bench.timeout must be positive, got %s", cfg.Timeout)
	}
	return nil
}
