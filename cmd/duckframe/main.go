// Package main provides the duckframe command.
package main

import (
	"os"

	"github.com/leapstack-labs/duckframe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
