// ============================================================================
// Demo Driver - Entry Point
// ============================================================================
//
// Package: main (cmd/demo)
// File: main.go
// Purpose: Process entry point. Grounded on the teacher repo's
// cmd/demo/main.go outer shape (load config, wire dependencies, run, report
// a fatal error and exit nonzero) but rebuilt on top of the new Cobra
// command tree in root.go rather than a hand-rolled os.Args[1] switch.
//
// ============================================================================

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
