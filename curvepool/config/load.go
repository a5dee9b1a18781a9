package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/TheusHen/curvepool/curvepool/errors"
)

const (
	envPrefix       = "CURVEPOOL"
	projectFileName = "curvepool.yaml"
	globalDirName   = ".curvepool"
)

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return err != nil && stderrors.As(err, &notFound)
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Load resolves the configuration. An explicit path must exist; when path is
// empty the default locations are tried and silently skipped if absent.
func Load(ctx context.Context, path string) (*Config, error) {
	v := newViperInstance()

	file := path
	if file == "" {
		file = discover()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("file", file).
		Int("pool.workers", cfg.Pool.Workers).
		Int("pool.queue_size", cfg.Pool.QueueSize).
		Str("log.level", cfg.Log.Level).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// discover returns the first default config file that exists, or "".
func discover() string {
	if fileExists(projectFileName) {
		return projectFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	global := filepath.Join(home, globalDirName, "config.yaml")
	if fileExists(global) {
		return global
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
