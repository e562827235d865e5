// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keys implements "pngme keygen", which creates the age
// identities used to seal and open messages.
package keys

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

// identityFileMode is the permission of a written identity file.
const identityFileMode fs.FileMode = 0o600

type keygenParams struct {
	Output string `json:"output" flag:"output,o" desc:"write the identity to this file (mode 0600) instead of stdout"`
}

// KeygenCommand returns the "keygen" command.
func KeygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Create an age identity for sealed messages",
		Description: `Generate an X25519 age identity.

With --output, the identity is written to a new file readable only by
you and the public key is printed. Without it, the identity goes to
stdout and the public key to stderr, as age-keygen does. An existing
file is never overwritten.

Give the public key to "pngme encode --recipient" and the identity file
to "pngme decode --identity".`,
		Usage:  "pngme keygen [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := cli.RequireArgs(args); err != nil {
				return err
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return cli.Internal("%w", err)
			}
			defer keypair.Close()

			if params.Output == "" {
				if err := keypair.WriteIdentityFile(os.Stdout, time.Now()); err != nil {
					return cli.Internal("writing identity: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Public key: %s\n", keypair.PublicKey)
				return nil
			}

			if err := writeIdentity(params.Output, keypair); err != nil {
				return cli.Classify(err)
			}
			logger.Info("identity written", "path", params.Output, "public_key", keypair.PublicKey)
			fmt.Printf("Public key: %s\n", keypair.PublicKey)
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Create an identity file",
				Command:     "pngme keygen -o ~/.config/pngme/identity.txt",
			},
		},
	}
}

func writeIdentity(path string, keypair *sealed.Keypair) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, identityFileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return cli.Validation("%s already exists", path).
				WithHint("Choose another path or remove the old identity first.")
		}
		return fmt.Errorf("creating identity file: %w", err)
	}
	if err := keypair.WriteIdentityFile(file, time.Now()); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing identity file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing identity file: %w", err)
	}
	return nil
}
