package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TilepMony-Project/flowcore"
	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	"github.com/TilepMony-Project/flowcore/internal/presentation/tui"
	"github.com/TilepMony-Project/flowcore/internal/xjson"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a workflow file into its action sequence",
	Long:  `Loads a workflow graph from a YAML or JSON file, runs the full pipeline (normalize, propagate chain context, compile) and prints the resulting action sequence.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		wallet, _ := cmd.Flags().GetString("wallet")
		asJSON, _ := cmd.Flags().GetBool("json")

		g, err := file.LoadWorkflow(path)
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		result, err := flowcore.New().Compile(*g, wallet)
		if err != nil {
			fmt.Printf("Compilation failed: %v\n", err)
			os.Exit(1)
		}

		if asJSON {
			data, err := xjson.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding result: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		render := tui.NewRenderer()
		out, err := render(tui.CompileReport(result))
		if err != nil {
			fmt.Print(tui.CompileReport(result))
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("file", "f", "workflow.yaml", "Workflow file to compile")
	compileCmd.Flags().Bool("json", false, "Emit the raw compile result as JSON")
}
