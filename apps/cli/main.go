package main

import "github.com/studiowebux/jsonfetch/apps/cli/cmd"

// Set via ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
