// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for pngme.
//
// The central type is [Command]: a named command with optional nested
// [Command.Subcommands], a Params factory whose struct tags declare the
// flags (see [BindFlags]), and a Run function. [Command.Execute] parses
// flags with github.com/spf13/pflag, routes subcommands, prints help
// with examples, and scopes the logger with the command path.
//
// When a user types an unknown command or flag, the framework suggests
// the closest known name by Levenshtein distance (threshold 3).
//
// Errors returned by commands are classified into [ToolError]
// categories by [Classify], so main can print a hint and tests can
// assert on the category instead of message text. A command that has
// already printed its own result returns [ExitError] to set the exit
// status silently.
//
// Terminal styling lives in styles.go (lipgloss, with x/ansi for
// width-limited previews).
package cli
