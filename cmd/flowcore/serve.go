package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/TilepMony-Project/flowcore"
	fileadapter "github.com/TilepMony-Project/flowcore/internal/adapters/file"
	httpadapter "github.com/TilepMony-Project/flowcore/internal/adapters/http"
	"github.com/TilepMony-Project/flowcore/internal/logging"
	"github.com/TilepMony-Project/flowcore/internal/metrics"
	"github.com/TilepMony-Project/flowcore/internal/presentation/tui"
	"github.com/TilepMony-Project/flowcore/pkg/adapters/evm"
	"github.com/TilepMony-Project/flowcore/pkg/adapters/memory"
	redisadapter "github.com/TilepMony-Project/flowcore/pkg/adapters/redis"
	"github.com/TilepMony-Project/flowcore/pkg/execution"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow engine HTTP server",
	Long:  `Starts the flowcore engine in server mode, exposing workflow compilation, simulation and execution tracking over a JSON API. Execution records live in memory by default; --data-dir keeps them on disk and --redis makes them shared and distributed-lock protected.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		rpcEndpoint, _ := cmd.Flags().GetString("rpc")
		controller, _ := cmd.Flags().GetString("controller")
		levelFlag, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(levelFlag))
		tui.PrintBanner()

		workflows := memory.NewStore()

		var executions ports.ExecutionStore = workflows
		var locker ports.DistributedLocker
		switch {
		case redisAddr != "":
			client := goredis.NewClient(&goredis.Options{Addr: redisAddr})
			executions = redisadapter.NewFromClient(client)
			locker = redisadapter.NewLocker(client, "flowcore:lock")
			logger.Info("execution store", "backend", "redis", "addr", redisAddr)
		case dataDir != "":
			executions = fileadapter.New(dataDir)
			logger.Info("execution store", "backend", "file", "dir", dataDir)
		default:
			logger.Info("execution store", "backend", "memory")
		}

		m := metrics.New(prometheus.DefaultRegisterer)

		managerOpts := []execution.Option{
			execution.WithLogger(logger),
			execution.WithHooks(m.Hooks()),
		}
		if locker != nil {
			managerOpts = append(managerOpts, execution.WithLocker(locker))
		}
		manager := execution.NewManager(executions, managerOpts...)

		engineOpts := []flowcore.Option{flowcore.WithLogger(logger)}
		if rpcEndpoint != "" && controller != "" {
			engineOpts = append(engineOpts, flowcore.WithSimulator(evm.NewSimulator(rpcEndpoint, controller, evm.WithLogger(logger))))
			logger.Info("simulation gateway", "rpc", rpcEndpoint, "controller", controller)
		}
		engine := flowcore.New(engineOpts...)

		server := httpadapter.NewServer(engine, workflows, manager,
			httpadapter.WithMetrics(m),
			httpadapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting flowcore server", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutdown requested", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("closing server", "err", err)
				}
			}
			logger.Info("flowcore server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for shared execution state")
	serveCmd.Flags().String("data-dir", "", "Directory for file-backed execution state")
	serveCmd.Flags().String("rpc", "", "EVM JSON-RPC endpoint for the simulation gateway")
	serveCmd.Flags().String("controller", "", "Payment controller contract address")
}
