package main

import (
	"os"

	"github.com/geobrowser/geo-stream/cmd"
)

var (
	Version    = "dev"
	CommitHash = "unknown"
)

func main() {
	cmd.SetVersion(Version, CommitHash)
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
