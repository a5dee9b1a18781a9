package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

// ExitError is the process exit code when a command fails.
const ExitError = 1

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	ConfigPath string
	Output     string
	Verbose    bool
	Quiet      bool
	// Workers overrides pool.workers when set.
	Workers int
}

// AddGlobalFlags registers the persistent flags on the root command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "config file (default ./curvepool.yaml or ~/.curvepool/config.yaml)")
	pf.StringVarP(&flags.Output, "output", "o", OutputText, "output format (text|json)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	pf.IntVarP(&flags.Workers, "workers", "w", 0, "worker goroutines (overrides pool.workers)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// ValidOutputFormats returns the accepted --output values.
func ValidOutputFormats() []string {
	return []string{OutputText, OutputJSON}
}

func isValidOutputFormat(format string) bool {
	return slices.Contains(ValidOutputFormats(), format)
}
