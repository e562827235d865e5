// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/cmd/pngme/commands"
	"github.com/bureau-foundation/pngme/lib/config"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own result (like verify) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return cli.Validation("%w", err).
			WithHint(fmt.Sprintf("Check the file named by $%s.", config.EnvironmentVariable))
	}
	logger := cli.NewCommandLogger(cfg.LogLevel())
	return commands.Root(cfg).Execute(ctx, os.Args[1:], logger)
}
