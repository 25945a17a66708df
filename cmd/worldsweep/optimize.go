package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Recompress image assets to reduce world size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// TODO: port the webp recompression pipeline once the file
			// server exposes content-type metadata on /assets responses.
			return fmt.Errorf("optimize is not implemented yet")
		},
	}
}
