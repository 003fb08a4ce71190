package main

import (
	"context"
	"os"

	"github.com/jmylchreest/pprofiler/cmd/pprofilectl/commands"
)

var (
	version   = "1.0"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	rootCmd := commands.NewRootCommand(version, commit, buildDate)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
