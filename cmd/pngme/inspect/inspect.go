// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/codec"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
)

// previewWidth is the widest payload preview in the text manifest.
const previewWidth = 32

type inspectParams struct {
	Format string `json:"format" flag:"format,f" default:"text" desc:"output format: text, json, yaml, cbor, or diag"`
}

// InspectCommand returns the "inspect" command.
func InspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe every chunk with content digests",
		Description: `Print a manifest of the file: each chunk's type, property flags,
length, CRC, and BLAKE3 content digest, followed by size totals and a
digest of the whole chunk sequence.

Flags are four letters: C/a critical or ancillary, P/p public or
private, R when the reserved bit is clear, S/u safe or unsafe to copy.

Chunks holding a compressed or sealed pngme message are marked. The
stream digest identifies the ordered chunk contents and is unchanged by
anything that preserves them, such as repairing a checksum.

Formats: text (default), json, yaml, cbor (binary, deterministic
encoding), and diag (CBOR diagnostic notation).`,
		Usage:  "pngme inspect <file> [flags]",
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
			container, err := pngchunk.ParseContainer(data)
			if err != nil {
				return cli.Classify(fmt.Errorf("parsing %s: %w", path, err))
			}
			manifest := BuildManifest(path, len(data), container)
			logger.Debug("manifest built", "path", path, "chunks", manifest.Totals.Chunks, "digest", manifest.Digest.String())

			return writeManifest(os.Stdout, cli.NewStyles(os.Stdout), manifest, params.Format)
		},
		Examples: []cli.Example{
			{
				Description: "Show the manifest",
				Command:     "pngme inspect photo.png",
			},
			{
				Description: "Compare two files by stream digest",
				Command:     "pngme inspect a.png -f json | jq -r .digest",
			},
			{
				Description: "Inspect the deterministic CBOR encoding",
				Command:     "pngme inspect photo.png --format diag",
			},
		},
	}
}

// writeManifest writes manifest to w in format. json and yaml output
// is syntax-highlighted when styles emit color.
func writeManifest(w io.Writer, styles *cli.Styles, manifest *Manifest, format string) error {
	switch format {
	case "text", "":
		writeText(w, styles, manifest)
		return nil
	case "json":
		var buffer bytes.Buffer
		encoder := json.NewEncoder(&buffer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(manifest); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return styles.Highlight(w, buffer.String(), "json")
	case "yaml":
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(manifest); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return styles.Highlight(w, buffer.String(), "yaml")
	case "cbor":
		data, err := codec.Marshal(manifest)
		if err != nil {
			return fmt.Errorf("encoding cbor: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "diag":
		data, err := codec.Marshal(manifest)
		if err != nil {
			return fmt.Errorf("encoding cbor: %w", err)
		}
		notation, err := codec.Diagnose(data)
		if err != nil {
			return fmt.Errorf("diagnosing cbor: %w", err)
		}
		_, err = fmt.Fprintln(w, notation)
		return err
	default:
		return cli.Validation("unknown format %q", format).
			WithHint("Use text, json, yaml, cbor, or diag.")
	}
}

func writeText(w io.Writer, styles *cli.Styles, manifest *Manifest) {
	totals := manifest.Totals

	fmt.Fprintf(w, "%s  %s, %s chunks\n",
		styles.Header.Render(manifest.Path),
		humanize.Bytes(uint64(manifest.Size)),
		humanize.Comma(int64(totals.Chunks)),
	)
	fmt.Fprintf(w, "%s\n", styles.Faint.Render(fmt.Sprintf("  %4s  %-4s  %-4s  %10s  %-8s  %-12s  %s",
		"#", "TYPE", "FLAG", "LENGTH", "CRC", "DIGEST", "DATA")))

	for _, chunk := range manifest.Chunks {
		typeStyle := styles.Type
		if chunk.Critical {
			typeStyle = styles.Critical
		}
		fmt.Fprintf(w, "  %4d  %s  %s  %10s  %08x  %s  %s\n",
			chunk.Index,
			typeStyle.Render(chunk.Type.String()),
			chunk.Flags(),
			humanize.Comma(int64(chunk.Length)),
			chunk.Checksum,
			styles.Faint.Render(chunk.Digest.Short()),
			describeData(chunk, styles),
		)
	}

	fmt.Fprintf(w, "\n  critical %d, ancillary %d, envelopes %d\n", totals.Critical, totals.Ancillary, totals.Envelopes)
	fmt.Fprintf(w, "  data %s, overhead %s\n", humanize.Bytes(totals.DataBytes), humanize.Bytes(totals.OverheadBytes))
	fmt.Fprintf(w, "  digest %s\n", manifest.Digest)
}

func describeData(chunk ChunkInfo, styles *cli.Styles) string {
	switch {
	case chunk.Sealed:
		return styles.Good.Render("<sealed>")
	case chunk.Compression != "":
		return styles.Good.Render(fmt.Sprintf("<%s, %s>", chunk.Compression, humanize.Bytes(uint64(chunk.MessageSize))))
	default:
		return cli.Preview(chunk.data, previewWidth)
	}
}
