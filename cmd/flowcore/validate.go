package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	"github.com/TilepMony-Project/flowcore/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a workflow file for structural problems",
	Long:  `Loads a workflow file and reports duplicate ids, dangling edges, unreachable nodes and underspecified branch nodes.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")

		g, err := file.LoadWorkflow(path)
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}
		if err := validator.ValidateGraph(*g); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("file", "f", "workflow.yaml", "Workflow file to validate")
}
