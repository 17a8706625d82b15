// Package main is the entry point for the repodeck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/johanforsgren/repodeck/internal/app"
	"github.com/johanforsgren/repodeck/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCommand(app.New, version).Execute()
}
