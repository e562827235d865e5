// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete pngme command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	inspectcmd "github.com/bureau-foundation/pngme/cmd/pngme/inspect"
	keyscmd "github.com/bureau-foundation/pngme/cmd/pngme/keys"
	messagecmd "github.com/bureau-foundation/pngme/cmd/pngme/message"
	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/version"
)

// Root builds and returns the pngme command tree. cfg supplies the
// defaults that flags override.
func Root(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name: "pngme",
		Description: `pngme: hide messages in PNG files.

Messages are stored in chunks of a type you choose. Chunk types whose
first letter is lowercase are ancillary, so image viewers skip them and
the picture is unchanged.

Configuration is read from the file named by $PNGME_CONFIG (YAML or
JSON with comments) when set.`,
		Subcommands: []*cli.Command{
			messagecmd.EncodeCommand(cfg),
			messagecmd.DecodeCommand(cfg),
			messagecmd.RemoveCommand(cfg),
			messagecmd.PrintCommand(),
			inspectcmd.InspectCommand(),
			inspectcmd.VerifyCommand(),
			inspectcmd.RepairCommand(cfg),
			keyscmd.KeygenCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("pngme %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Hide a message in an ancillary chunk",
				Command:     "pngme encode photo.png ruSt 'meet at dawn'",
			},
			{
				Description: "Read it back",
				Command:     "pngme decode photo.png ruSt",
			},
			{
				Description: "List every chunk",
				Command:     "pngme print photo.png",
			},
			{
				Description: "Check and fix checksums",
				Command:     "pngme verify photo.png || pngme repair photo.png",
			},
		},
	}
}
