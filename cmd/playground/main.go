// Package main provides the entry point for the playground CLI.
package main

import (
	"os"

	"github.com/openplayground/catalog/cmd/playground/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
