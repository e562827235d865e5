// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

type printParams struct {
	cli.JSONOutput
}

// chunkEntry is one element of the --json output of print.
type chunkEntry struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	Length   uint32 `json:"length"`
	Checksum uint32 `json:"checksum"`
	Text     string `json:"text,omitempty"`
	Hex      string `json:"hex,omitempty"`
}

// PrintCommand returns the "print" command.
func PrintCommand() *cli.Command {
	var params printParams

	return &cli.Command{
		Name:    "print",
		Summary: "List every chunk in a file",
		Description: `Print each chunk's type, length, checksum, and data.

With --json, print a list with the full payload: "text" for UTF-8
payloads and "hex" for anything else.`,
		Usage:  "pngme print <file> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, "file"); err != nil {
				return err
			}
			container, err := pngfile.Read(args[0])
			if err != nil {
				return cli.Classify(err)
			}
			logger.Debug("file read", "path", args[0], "chunks", container.Len())

			if done, err := params.EmitJSON(chunkEntries(container)); done {
				return err
			}
			printChunks(os.Stdout, args[0], container)
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "List chunks",
				Command:     "pngme print photo.png",
			},
			{
				Description: "List chunk types with jq",
				Command:     "pngme print photo.png --json | jq -r '.[].type'",
			},
		},
	}
}

func chunkEntries(container *pngchunk.Container) []chunkEntry {
	var entries []chunkEntry
	for index, chunk := range container.Chunks() {
		entry := chunkEntry{
			Index:    index,
			Type:     chunk.Type().String(),
			Length:   chunk.Length(),
			Checksum: chunk.Checksum(),
		}
		if text, err := chunk.DataAsText(); err == nil {
			entry.Text = text
		} else {
			entry.Hex = fmt.Sprintf("%x", chunk.Data())
		}
		entries = append(entries, entry)
	}
	return entries
}

// printChunks writes a header line and each chunk's display form.
func printChunks(w io.Writer, path string, container *pngchunk.Container) {
	styles := cli.NewStyles(w)
	fmt.Fprintf(w, "%s  %d chunks, %d bytes\n", styles.Header.Render(path), container.Len(), container.EncodedLen())
	for index, chunk := range container.Chunks() {
		fmt.Fprintf(w, "  %3d  %s\n", index, chunk)
	}
}
