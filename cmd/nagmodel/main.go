// Package main is the entry point for the nagmodel CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/nagmodel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
