// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for pngme packages.
//
// [WriteFile] and [ReadFile] wrap file setup and inspection in a
// test's temporary directory. [FlipBit] and [PNG] build corrupted and
// well-formed chunk streams for command tests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
