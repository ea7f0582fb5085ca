package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TilepMony-Project/flowcore"
	"github.com/TilepMony-Project/flowcore/internal/adapters/file"
	"github.com/TilepMony-Project/flowcore/internal/presentation/tui"
	"github.com/TilepMony-Project/flowcore/pkg/adapters/evm"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Dry-run a workflow against the payment controller",
	Long:  `Compiles the workflow and issues one read-only simulation through an EVM JSON-RPC endpoint. Without an endpoint the command reports the compiled shape and a failed simulation.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")
		wallet, _ := cmd.Flags().GetString("wallet")
		rpcEndpoint, _ := cmd.Flags().GetString("rpc")
		controller, _ := cmd.Flags().GetString("controller")

		g, err := file.LoadWorkflow(path)
		if err != nil {
			fmt.Printf("Error loading workflow: %v\n", err)
			os.Exit(1)
		}

		var opts []flowcore.Option
		if rpcEndpoint != "" && controller != "" {
			opts = append(opts, flowcore.WithSimulator(evm.NewSimulator(rpcEndpoint, controller)))
		}

		result, err := flowcore.New(opts...).Simulate(cmd.Context(), *g, wallet)
		if err != nil {
			fmt.Printf("Simulation failed to compile: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		out, rerr := render(tui.SimulationReport(result))
		if rerr != nil {
			out = tui.SimulationReport(result)
		}
		fmt.Print(out)

		if !result.Success {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("file", "f", "workflow.yaml", "Workflow file to simulate")
	simulateCmd.Flags().String("rpc", "", "EVM JSON-RPC endpoint")
	simulateCmd.Flags().String("controller", "", "Payment controller contract address")
}
