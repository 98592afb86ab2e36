// Package main provides the CLI for the pyshrink Python source shrinker.
package main

import (
	"os"

	"github.com/leapstack-labs/pyshrink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
