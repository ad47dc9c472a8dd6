// ============================================================================
// Demo Driver - factorial subcommand
// ============================================================================
//
// Package: main (cmd/demo)
// File: factorial.go
// Purpose: Exercises future.Async and future.Map: builds a chain of N
// futures, each multiplying the predecessor's result by an increasing
// factor, and awaits the terminal future for N!.
//
// ============================================================================

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChuLiYu/taskpool/future"
	"github.com/ChuLiYu/taskpool/pool"
	"github.com/ChuLiYu/taskpool/pool/metrics"
)

func buildFactorialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factorial",
		Short: "Compute N! as a chain of futures joined by Map",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactorial()
		},
	}
	return cmd
}

func runFactorial() error {
	cfg, err := loadDemoConfig()
	if err != nil {
		return err
	}
	startMetricsIfEnabled(cfg)

	n := cfg.Factorial.N
	if n < 1 {
		return fmt.Errorf("demo: factorial.n must be >= 1, got %d", n)
	}

	opts := []pool.Option{pool.WithFatalHandler(demoFatalHandler)}
	if cfg.Metrics.Enabled {
		opts = append(opts, pool.WithMetrics(metrics.NewCollector("factorial-demo")))
	}

	p, err := pool.NewPool(cfg.Worker.Count, opts...)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	defer p.Stop()

	chain := make([]*future.Future[int], n)
	chain[0], err = future.Async(p, func() int { return 1 })
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	for i := 1; i < n; i++ {
		factor := i + 1
		next, err := future.Map(p, chain[i-1], func(v int) int { return v * factor })
		if err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		chain[i] = next
	}

	result := future.Await(chain[n-1])
	log.Info("factorial demo complete", "n", n, "result", result, "workers", cfg.Worker.Count)
	fmt.Printf("%d! = %d\n", n, result)
	return nil
}
