// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspect implements the read-mostly diagnostic commands:
// inspect prints a manifest of every chunk with content digests,
// verify walks a possibly damaged file and reports each chunk's
// checksum, and repair rewrites checksums that do not match.
//
// inspect requires a well-formed file. verify and repair use the
// lenient scanner in lib/pngchunk so they can work on files that
// strict parsing rejects, as long as the length framing is intact.
package inspect
