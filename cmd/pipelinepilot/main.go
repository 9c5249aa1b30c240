// Package main provides the Pipeline Pilot CLI application
package main

import (
	"fmt"
	"os"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionString() string {
	return fmt.Sprintf("Pipeline Pilot %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
