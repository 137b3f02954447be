package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "scoreforge",
	Short: "lay out and inspect engraved scores",
}

func init() {
	rootCmd.AddCommand(layoutCmd, renderCmd, previewCmd)
}
