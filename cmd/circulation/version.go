package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of circulation",
	Run: func(*cobra.Command, []string) {
		fmt.Printf("circulation version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
