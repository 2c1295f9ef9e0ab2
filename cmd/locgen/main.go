package main

import (
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/open-cli-collective/locator-cli/internal/cmd/root"
)

func main() {
	log.SetFlags(0)

	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
