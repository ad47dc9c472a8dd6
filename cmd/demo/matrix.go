// ============================================================================
// Demo Driver - matrix subcommand
// ============================================================================
//
// Package: main (cmd/demo)
// File: matrix.go
// Purpose: Exercises the worker pool directly (no futures): sums the rows
// of a random matrix in parallel, one task per row, synchronized with a
// plain sync.WaitGroup -- the Go-idiomatic shape of the original's
// "submit K independent tasks, wait for all of them" scenario.
//
// ============================================================================

package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ChuLiYu/taskpool/pool"
	"github.com/ChuLiYu/taskpool/pool/metrics"
)

func buildMatrixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Sum the rows of a random matrix in parallel across a worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix()
		},
	}
	return cmd
}

func runMatrix() error {
	cfg, err := loadDemoConfig()
	if err != nil {
		return err
	}
	startMetricsIfEnabled(cfg)

	rows, cols := cfg.Matrix.Rows, cfg.Matrix.Cols
	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
		for j := range matrix[i] {
			matrix[i][j] = rand.Intn(100)
		}
	}

	opts := []pool.Option{pool.WithFatalHandler(demoFatalHandler)}
	if cfg.Metrics.Enabled {
		opts = append(opts, pool.WithMetrics(metrics.NewCollector("matrix-demo")))
	}

	p, err := pool.NewPool(cfg.Worker.Count, opts...)
	if err != nil {
		return fmt.Errorf("demo: %w", err)
	}

	sums := make([]int, rows)
	var wg sync.WaitGroup
	wg.Add(rows)
	for i := 0; i < rows; i++ {
		i := i
		if err := p.Submit(func(ctx context.Context) {
			defer wg.Done()
			total := 0
			for _, v := range matrix[i] {
				total += v
			}
			sums[i] = total
		}); err != nil {
			wg.Done()
			log.Error("row submission failed", "row", i, "error", err)
		}
	}
	wg.Wait()
	p.Stop()

	grand := 0
	for _, s := range sums {
		grand += s
	}
	log.Info("matrix demo complete", "rows", rows, "cols", cols, "workers", cfg.Worker.Count, "grand_total", grand)
	fmt.Printf("summed %d rows x %d cols across %d workers; grand total = %d\n", rows, cols, cfg.Worker.Count, grand)
	return nil
}
