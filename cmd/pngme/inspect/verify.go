// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

type verifyParams struct {
	cli.JSONOutput
}

// chunkStatus is one chunk's verification result.
type chunkStatus struct {
	Index            int    `json:"index"`
	Offset           int    `json:"offset"`
	Type             string `json:"type"`
	Length           uint32 `json:"length"`
	StoredChecksum   uint32 `json:"stored_checksum"`
	ComputedChecksum uint32 `json:"computed_checksum"`
	ChecksumValid    bool   `json:"checksum_valid"`
	TypeValid        bool   `json:"type_valid"`
}

// verifyReport is the --json output of verify.
type verifyReport struct {
	Path   string        `json:"path"`
	Valid  bool          `json:"valid"`
	Chunks []chunkStatus `json:"chunks"`

	// Error is set when the framing itself is broken (bad signature or
	// truncation); Chunks then holds what was scanned before it.
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// VerifyCommand returns the "verify" command.
func VerifyCommand() *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Check every chunk's CRC and type",
		Description: `Walk the file chunk by chunk and report whether each stored CRC
matches the chunk contents and whether each type is four letters with
the reserved bit clear.

Unlike the other commands, verify keeps going past a bad chunk so every
problem is listed. It stops only where the length framing is broken.
Exits with status 1 when any problem is found.`,
		Usage:  "pngme verify <file> [flags]",
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
			report := verify(path, data)
			logger.Info("file verified", "path", path, "chunks", len(report.Chunks), "valid", report.Valid)

			if done, err := params.EmitJSON(report); done {
				if err != nil {
					return err
				}
			} else {
				writeVerifyText(os.Stdout, report)
			}
			if !report.Valid {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Check a file",
				Command:     "pngme verify photo.png",
			},
			{
				Description: "Use in a script",
				Command:     "pngme verify photo.png > /dev/null || pngme repair photo.png",
			},
		},
	}
}

func verify(path string, data []byte) verifyReport {
	report := verifyReport{Path: path, Valid: true, Chunks: []chunkStatus{}}

	scanned, err := pngchunk.Scan(data)
	for index, chunk := range scanned {
		status := chunkStatus{
			Index:            index,
			Offset:           chunk.Offset,
			Type:             chunk.TypeText(),
			Length:           chunk.Length,
			StoredChecksum:   chunk.StoredChecksum,
			ComputedChecksum: chunk.ComputedChecksum,
			ChecksumValid:    chunk.ChecksumValid(),
			TypeValid:        chunk.TypeValid(),
		}
		if !status.ChecksumValid || !status.TypeValid {
			report.Valid = false
		}
		report.Chunks = append(report.Chunks, status)
	}
	if err != nil {
		report.Valid = false
		report.Error = err.Error()
		report.Kind = pngchunk.KindOf(err).String()
	}
	return report
}

func writeVerifyText(w io.Writer, report verifyReport) {
	styles := cli.NewStyles(w)
	for _, chunk := range report.Chunks {
		var problems []string
		if !chunk.TypeValid {
			problems = append(problems, "invalid type")
		}
		if !chunk.ChecksumValid {
			problems = append(problems, fmt.Sprintf("crc stored %08x, computed %08x", chunk.StoredChecksum, chunk.ComputedChecksum))
		}

		status := styles.Good.Render("ok      ")
		if len(problems) > 0 {
			status = styles.Bad.Render("BAD     ")
		}
		fmt.Fprintf(w, "  %s %4d  %-4s  offset %d, %d bytes", status, chunk.Index, chunk.Type, chunk.Offset, chunk.Length)
		if len(problems) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(problems, "; "))
		}
		fmt.Fprintln(w)
	}
	if report.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", styles.Bad.Render("BROKEN  "), report.Error)
	}

	if report.Valid {
		fmt.Fprintf(w, "%s: %d chunks, all valid\n", report.Path, len(report.Chunks))
	} else {
		fmt.Fprintf(w, "%s: %s\n", report.Path, styles.Bad.Render("problems found"))
	}
}
