// Package main provides the entry point for the curvepool CLI.
package main

import (
	"context"
	"os"

	"github.com/TheusHen/curvepool/internal/cli"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if err := cli.Execute(context.Background(), info); err != nil {
		os.Exit(cli.ExitError)
	}
}
