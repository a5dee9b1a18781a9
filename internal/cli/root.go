// Package cli provides the command-line interface for curvepool.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TheusHen/curvepool/curvepool"
	"github.com/TheusHen/curvepool/curvepool/config"
	"github.com/TheusHen/curvepool/curvepool/errors"
	"github.com/TheusHen/curvepool/curvepool/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app is the state shared by every subcommand once the root's
// PersistentPreRunE has run.
type app struct {
	flags  *GlobalFlags
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	a := &app{flags: flags, log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "curvepool",
		Short: "Curve25519 agreement and signatures on a worker pool",
		Long: `curvepool runs X25519 key agreement and XEdDSA signing and verification
on a bounded pool of worker goroutines.

Keys, signatures and shared secrets are read and written as hex.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	cmd.AddCommand(
		newKeygenCmd(a),
		newAgreeCmd(a),
		newSignCmd(a),
		newVerifyCmd(a),
		newBenchCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if !isValidOutputFormat(a.flags.Output) {
		return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, a.flags.Output, ValidOutputFormats())
	}

	// Until the configured logger exists, only --verbose reports config loading.
	boot := zerolog.Nop()
	if a.flags.Verbose {
		l, _, err := logging.New(config.LogConfig{Level: zerolog.LevelDebugValue}, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		boot = l
	}
	cfg, err := config.Load(boot.WithContext(cmd.Context()), a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Pool.Workers = a.flags.Workers
		if err := config.Validate(cfg); err != nil {
			return errors.Wrap(err, "invalid --workers")
		}
	}
	switch {
	case a.flags.Verbose:
		cfg.Log.Level = zerolog.LevelDebugValue
	case a.flags.Quiet:
		cfg.Log.Level = zerolog.LevelWarnValue
	}

	log, closer, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	cmd.SetContext(log.WithContext(cmd.Context()))
	return nil
}

// engine starts an engine whose loop runs in the background until ctx ends.
func (a *app) engine(ctx context.Context) (*curvepool.Engine, error) {
	e, err := curvepool.New(curvepool.FromConfig(a.cfg), curvepool.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	e.Start(ctx)
	return e, nil
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
