// ABOUTME: Main entry point for the newshub command line
// ABOUTME: Builds the cobra command tree and exits non-zero on failure

package main

import (
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
