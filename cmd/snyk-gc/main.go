package main

import (
	"github.com/LerianStudio/snyk-gc-projects/cmd/snyk-gc/commands"
	"github.com/LerianStudio/snyk-gc-projects/internal/shutdown"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	shutdown.New().Terminate(commands.Execute())
}
