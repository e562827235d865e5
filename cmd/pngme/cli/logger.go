// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger passed to every command. When
// stderr is a terminal it writes slog text; when stderr is piped or
// redirected it writes JSON lines for scripts and CI.
func NewCommandLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level, !term.IsTerminal(int(os.Stderr.Fd())))
}

// NewLogger creates a logger writing to w at level, as JSON when
// asJSON is set and as slog text otherwise.
func NewLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
