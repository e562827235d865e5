// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

type repairParams struct {
	Output string `json:"output" flag:"output,o" desc:"write the result here instead of in place (- for stdout)"`
}

// RepairCommand returns the "repair" command.
func RepairCommand(cfg *config.Config) *cli.Command {
	var params repairParams

	return &cli.Command{
		Name:    "repair",
		Summary: "Rewrite chunk CRCs that do not match",
		Description: `Recompute the CRC of every chunk and replace stored values that are
wrong. Lengths, types, and data are left as they are, so a chunk whose
data was damaged keeps the damaged data: repair only makes the file
parse again.

The file is rewritten in place unless --output is given. An in-place
repair that finds nothing to fix leaves the file untouched.`,
		Usage:  "pngme repair <file> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, "file"); err != nil {
				return err
			}
			path := args[0]

			data, err := pngfile.ReadRaw(path)
			if err != nil {
				return cli.Classify(err)
			}
			repaired, count, err := pngchunk.Repair(data)
			if err != nil {
				return cli.Classify(fmt.Errorf("repairing %s: %w", path, err))
			}
			logger.Info("checksums repaired", "path", path, "count", count)

			if _, err := pngchunk.ParseContainer(repaired); err != nil {
				logger.Warn("repaired stream still fails to parse", "path", path, "error", err)
			}

			if count == 0 && params.Output == "" {
				fmt.Printf("%s: all checksums already valid\n", path)
				return nil
			}

			output := cli.OutputPath(path, params.Output)
			result, err := cli.WriteOutput(repaired, output, cfg, logger)
			if err != nil {
				return cli.Classify(err)
			}
			if output != "-" {
				fmt.Printf("%s: repaired %d checksums\n", result.Path, count)
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Fix checksums in place, keeping a backup",
				Command:     "PNGME_CONFIG=backup.yaml pngme repair photo.png",
			},
			{
				Description: "Write a repaired copy",
				Command:     "pngme repair damaged.png -o fixed.png",
			},
		},
	}
}
