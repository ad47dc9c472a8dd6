// ============================================================================
// Demo Driver - Command Line Interface
// ============================================================================
//
// Package: main (cmd/demo)
// File: root.go
// Purpose: Cobra command tree for the demo driver. Grounded on the teacher
// repo's internal/cli/cli.go BuildCLI: a root command with a persistent
// --config flag and subcommands built by dedicated functions, but scaled
// down to the two things this library actually needs demonstrated -- a
// worker pool processing independent tasks (matrix) and a Future/Map chain
// (factorial) -- instead of the teacher's run/enqueue/status trio.
//
// ============================================================================

package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ChuLiYu/taskpool/internal/config"
	"github.com/ChuLiYu/taskpool/pool/metrics"
)

var (
	configFile  string
	workerFlag  int
	metricsPort int
)

var log = slog.Default()

// BuildCLI assembles the root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taskpool-demo",
		Short:   "taskpool-demo: sample driver for the generic worker pool and future library",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "demo config file path (YAML)")
	rootCmd.PersistentFlags().IntVar(&workerFlag, "workers", 0, "override the configured worker count (0 keeps the config value)")
	rootCmd.PersistentFlags().IntVar(&metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 keeps the config value)")

	rootCmd.AddCommand(buildMatrixCommand())
	rootCmd.AddCommand(buildFactorialCommand())

	return rootCmd
}

// loadDemoConfig reads the config file (or defaults), applying the
// --workers and --metrics-port overrides on top.
func loadDemoConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	if workerFlag > 0 {
		cfg.Worker.Count = workerFlag
	}
	if metricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = metricsPort
	}
	return cfg, nil
}

// startMetricsIfEnabled launches the Prometheus HTTP endpoint in the
// background when the config calls for it, mirroring the teacher's
// cfg.Metrics.Enabled gate in internal/cli/cli.go.
func startMetricsIfEnabled(cfg *config.Config) {
	if !cfg.Metrics.Enabled {
		return
	}
	go func() {
		if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
			log.Error("metrics server exited", "error", err)
		}
	}()
	log.Info("metrics server started", "port", cfg.Metrics.Port)
}

// demoFatalHandler formats a stack trace and exits the process. The library
// itself never calls os.Exit; that decision belongs to whoever injects the
// handler, which here is this driver.
func demoFatalHandler(err error) {
	log.Error("unrecoverable condition", "error", err, "stack", string(debug.Stack()))
	os.Exit(1)
}
