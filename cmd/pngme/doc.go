// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Pngme hides text messages in the chunks of PNG files. It provides
// subcommands to add, read, and remove messages (encode, decode,
// remove, print), to examine and fix files (inspect, verify, repair),
// and to create age identities for sealed messages (keygen).
package main
