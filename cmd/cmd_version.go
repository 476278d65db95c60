package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "v0.1.0"

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show bond-indexer version",
		RunE:  versionHandler,
	}
}

func versionHandler(_ *cobra.Command, _ []string) error {
	fmt.Println("bond-indexer " + Version)
	return nil
}
