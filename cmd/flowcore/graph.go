package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TilepMony-Project/flowcore"
	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	mermaid "github.com/TilepMony-Project/flowcore/internal/presentation/graph"
	"github.com/TilepMony-Project/flowcore/pkg/graph"
)

// graphCmd exports a Mermaid visualization of a workflow file.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Loads a workflow file and outputs a Mermaid diagram (graph TD). With --annotate the nodes carry their propagated chain context.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		annotate, _ := cmd.Flags().GetBool("annotate")

		g, err := file.LoadWorkflow(path)
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		if annotate {
			chains := flowcore.New().Chains()
			g.Nodes = graph.Propagate(graph.Normalize(*g), chains.Source(), chains.Destination())
		}

		fmt.Print(mermaid.GenerateMermaid(*g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("file", "f", "workflow.yaml", "Workflow file to visualize")
	graphCmd.Flags().Bool("annotate", false, "Stamp nodes with propagated chain context")
}
