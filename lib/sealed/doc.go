// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts chunk messages to age X25519 recipients and
// decrypts them with an identity.
//
// Ciphertext is ASCII-armored (filippo.io/age/armor), so a sealed
// message is still printable text inside its chunk and survives being
// copied out of "pngme print" output. [IsSealed] recognizes the armor
// header.
//
// Key exports:
//
//   - [GenerateKeypair] -- new X25519 identity held in a secret.Buffer
//   - [Encrypt] -- seal plaintext to one or more age1... recipients
//   - [Decrypt] -- open a sealed message with an identity buffer
//   - [ParsePublicKey] -- recipient validation for config and flags
//
// Identities and decrypted plaintext live in [secret.Buffer] memory.
package sealed
