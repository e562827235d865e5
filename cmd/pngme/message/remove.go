// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

type removeParams struct {
	Output string `json:"output" flag:"output,o" desc:"write the result here instead of in place (- for stdout)"`
}

// RemoveCommand returns the "remove" command.
func RemoveCommand(cfg *config.Config) *cli.Command {
	var params removeParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Delete the first chunk of a type",
		Description: `Remove the first chunk of the given type and write the file back.

Only the first match is removed; run again to remove the next one. The
file is rewritten in place unless --output is given.`,
		Usage:  "pngme remove <file> <type> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, "file", "chunk type"); err != nil {
				return err
			}
			path, typeText := args[0], args[1]

			container, err := pngfile.Read(path)
			if err != nil {
				return cli.Classify(err)
			}
			removed, err := container.RemoveFirstOfType(typeText)
			if err != nil {
				return cli.Classify(fmt.Errorf("%s: %w", path, err))
			}
			logger.Info("chunk removed", "type", removed.Type().String(), "length", removed.Length())

			output := cli.OutputPath(path, params.Output)
			result, err := cli.WriteOutput(container.Bytes(), output, cfg, logger)
			if err != nil {
				return cli.Classify(err)
			}
			if output != "-" {
				fmt.Printf("Removed %s\n", removed)
				fmt.Printf("Wrote %s (%d chunks remain)\n", result.Path, container.Len())
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Remove a hidden message",
				Command:     "pngme remove photo.png RuSt",
			},
		},
	}
}
