// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

type encodeParams struct {
	cli.JSONOutput
	Output     string   `json:"output"     flag:"output,o"    desc:"write the result here instead of in place (- for stdout)"`
	Compress   string   `json:"compress"   flag:"compress"    desc:"payload compression: none, lz4, zstd, or auto (default from config)"`
	Recipients []string `json:"recipients" flag:"recipient,r" desc:"seal the message to this age public key (repeatable; default from config)"`
}

// encodeResult is the --json output of encode.
type encodeResult struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Length      uint32 `json:"length"`
	Checksum    uint32 `json:"checksum"`
	Compression string `json:"compression"`
	Sealed      bool   `json:"sealed"`
	Backup      string `json:"backup,omitempty"`
}

// EncodeCommand returns the "encode" command.
func EncodeCommand(cfg *config.Config) *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Hide a message in a new chunk",
		Description: `Append a chunk of the given type holding the message.

The file is rewritten in place unless --output is given. The message may
be compressed (--compress) and sealed to one or more age recipients
(--recipient); both default to the encode section of the config file.
Use "-" as the file to read the PNG from stdin.`,
		Usage:  "pngme encode <file> <type> <message> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, "file", "chunk type", "message"); err != nil {
				return err
			}
			return runEncode(args[0], args[1], args[2], &params, cfg, logger)
		},
		Examples: []cli.Example{
			{
				Description: "Hide a message in place",
				Command:     "pngme encode photo.png RuSt 'meet at dawn'",
			},
			{
				Description: "Write to a copy with zstd compression",
				Command:     "pngme encode photo.png RuSt 'meet at dawn' -o out.png --compress zstd",
			},
			{
				Description: "Seal the message to an age recipient",
				Command:     "pngme encode photo.png RuSt 'meet at dawn' -r age1...",
			},
		},
	}
}

func runEncode(path, typeText, message string, params *encodeParams, cfg *config.Config, logger *slog.Logger) error {
	chunkType, err := pngchunk.ParseChunkType(typeText)
	if err != nil {
		return cli.Classify(err)
	}

	compression := cfg.Compression()
	if params.Compress != "" {
		compression, err = payload.ParseCompression(params.Compress)
		if err != nil {
			return cli.Validation("--compress: %w", err)
		}
	}

	recipients := params.Recipients
	if len(recipients) == 0 {
		recipients = cfg.Encode.Recipients
	}
	for _, recipient := range recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			return cli.Validation("--recipient: %w", err)
		}
	}

	container, err := pngfile.Read(path)
	if err != nil {
		return cli.Classify(err)
	}
	logger.Debug("file read", "path", path, "chunks", container.Len())

	encoded, err := payload.Encode([]byte(message), payload.EncodeOptions{
		Compression: compression,
		Recipients:  recipients,
	})
	if err != nil {
		return cli.Classify(err)
	}
	chunk := pngchunk.NewChunk(chunkType, encoded.Data)
	container.Append(chunk)
	logger.Info("chunk appended",
		"type", chunkType.String(),
		"length", chunk.Length(),
		"message_bytes", len(message),
		"compression", encoded.Compression.String(),
		"sealed", encoded.Sealed,
	)

	output := cli.OutputPath(path, params.Output)
	result, err := cli.WriteOutput(container.Bytes(), output, cfg, logger)
	if err != nil {
		return cli.Classify(err)
	}
	if output == "-" {
		return nil
	}

	if done, err := params.EmitJSON(encodeResult{
		Path:        result.Path,
		Type:        chunkType.String(),
		Length:      chunk.Length(),
		Checksum:    chunk.Checksum(),
		Compression: encoded.Compression.String(),
		Sealed:      encoded.Sealed,
		Backup:      result.Backup,
	}); done {
		return err
	}

	fmt.Printf("Appended %s chunk (%d bytes%s) to %s\n", chunkType, chunk.Length(), describeLayers(encoded.Compression, encoded.Sealed), result.Path)
	return nil
}

// describeLayers returns ", zstd, sealed"-style detail for the
// payload layers that were applied, or "" when there are none.
func describeLayers(compression payload.CompressionTag, isSealed bool) string {
	var detail string
	if compression != payload.CompressionNone {
		detail += ", " + compression.String()
	}
	if isSealed {
		detail += ", sealed"
	}
	return detail
}
