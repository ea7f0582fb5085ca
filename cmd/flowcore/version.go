package main

import (
	"fmt"
	"strings"

	"github.com/TilepMony-Project/flowcore"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowcore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowcore version %s\n", strings.TrimSpace(flowcore.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
