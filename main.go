// Copyright (c) 2026 Liblift Team
// Liblift - app bundle library extraction and curation
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Liblift.
//
// Usage:
//
//	go run . [flags]
//	./liblift [flags]
//
// This launches the Liblift CLI. See --help for options.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/liblift/liblift/internal/logging"
	"github.com/liblift/liblift/ui/cli"
)

func main() {
	// Ctrl-C cancels the command context, so an in-flight extraction stops
	// and discards its partial staging area.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
