// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

// OutputPath resolves where a modified stream goes: output when set,
// otherwise back to input. An input of "-" (stdin) without an
// explicit output goes to stdout.
func OutputPath(input, output string) string {
	if output != "" {
		return output
	}
	return input
}

// WriteOutput writes a modified chunk stream to path ("-" for stdout)
// using the backup and file mode settings from cfg. It returns the
// write result; for stdout only Path and Size are set.
func WriteOutput(data []byte, path string, cfg *config.Config, logger *slog.Logger) (pngfile.Result, error) {
	if path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return pngfile.Result{}, fmt.Errorf("writing stdout: %w", err)
		}
		logger.Debug("wrote chunk stream to stdout", "bytes", len(data))
		return pngfile.Result{Path: path, Size: len(data)}, nil
	}

	result, err := pngfile.Write(path, data, pngfile.Options{
		Mode:   cfg.FileMode(),
		Backup: cfg.Output.Backup,
	})
	if err != nil {
		return pngfile.Result{}, err
	}
	logger.Info("file written",
		"path", result.Path,
		"bytes", result.Size,
		"mode", fmt.Sprintf("%04o", result.Mode),
	)
	if result.Backup != "" {
		logger.Info("backup written", "path", result.Backup)
	}
	return result, nil
}
