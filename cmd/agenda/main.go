// Package main provides the entry point for the agenda CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/agenda/internal/cli"
)

//nolint:gochecknoglobals // set by ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
