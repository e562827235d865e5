// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/config"
	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/pngfile"
	"github.com/bureau-foundation/pngme/lib/secret"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

type decodeParams struct {
	cli.JSONOutput
	Identity string `json:"identity" flag:"identity,i" desc:"age identity file for sealed messages (default from config)"`
}

// decodeResult is the --json output of decode.
type decodeResult struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Compression string `json:"compression"`
	Sealed      bool   `json:"sealed"`
}

// DecodeCommand returns the "decode" command.
func DecodeCommand(cfg *config.Config) *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Print the message hidden in a chunk",
		Description: `Find the first chunk of the given type and print its message.

Compression is undone automatically. A sealed message needs the age
identity it was sealed to, given with --identity or the decode section
of the config file. The message must be UTF-8 text.`,
		Usage:  "pngme decode <file> <type> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args, "file", "chunk type"); err != nil {
				return err
			}
			return runDecode(args[0], args[1], &params, cfg, logger)
		},
		Examples: []cli.Example{
			{
				Description: "Print a hidden message",
				Command:     "pngme decode photo.png RuSt",
			},
			{
				Description: "Open a sealed message",
				Command:     "pngme decode photo.png RuSt --identity ~/.config/pngme/identity.txt",
			},
		},
	}
}

func runDecode(path, typeText string, params *decodeParams, cfg *config.Config, logger *slog.Logger) error {
	chunkType, err := pngchunk.ParseChunkType(typeText)
	if err != nil {
		return cli.Classify(err)
	}

	container, err := pngfile.Read(path)
	if err != nil {
		return cli.Classify(err)
	}
	chunk := container.FindFirstOfType(chunkType.String())
	if chunk == nil {
		return cli.Classify(fmt.Errorf("no %s chunk in %s: %w", chunkType, path, pngchunk.ErrNotFound))
	}
	logger.Debug("chunk found", "type", chunkType.String(), "length", chunk.Length())

	var options payload.DecodeOptions
	if sealed.IsSealed(chunk.Data()) {
		identityPath := params.Identity
		if identityPath == "" {
			identityPath = cfg.Decode.IdentityFile
		}
		if identityPath != "" {
			identity, err := secret.ReadFromPath(identityPath)
			if err != nil {
				return cli.Classify(fmt.Errorf("reading identity: %w", err))
			}
			defer identity.Close()
			options.Identity = identity
		}
	}

	decoded, err := payload.Decode(chunk.Data(), options)
	if err != nil {
		return cli.Classify(err)
	}
	if !utf8.Valid(decoded.Message) {
		return cli.Classify(fmt.Errorf("%s chunk in %s: %w", chunkType, path, pngchunk.ErrNotUTF8))
	}
	logger.Info("message decoded",
		"type", chunkType.String(),
		"message_bytes", len(decoded.Message),
		"compression", decoded.Compression.String(),
		"sealed", decoded.Sealed,
	)

	if done, err := params.EmitJSON(decodeResult{
		Type:        chunkType.String(),
		Message:     string(decoded.Message),
		Compression: decoded.Compression.String(),
		Sealed:      decoded.Sealed,
	}); done {
		return err
	}
	fmt.Println(string(decoded.Message))
	return nil
}
