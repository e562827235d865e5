// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pngchunk reads, validates, edits, and re-serializes the chunk
// stream of a PNG file. It never decodes image data: every chunk is an
// opaque, type-tagged, CRC-protected payload.
//
// The package has three layers, each built on the one below:
//
//   - [ChunkType]: the 4-byte ASCII-letter tag. Bit 5 of each byte
//     (the ASCII case bit) carries a property flag: critical, public,
//     reserved, safe-to-copy.
//
//   - [Chunk]: length + type + payload + CRC-32. Chunks are immutable
//     once built. The checksum is computed by [NewChunk] or verified by
//     [ParseChunk] and cannot be set by callers, so an in-memory Chunk
//     always serializes to a valid record.
//
//   - [Container]: the 8-byte PNG signature followed by an ordered
//     sequence of chunks. [ParseContainer] is all-or-nothing: any bad
//     chunk fails the whole parse. [Container.RemoveFirstOfType] leaves
//     the container untouched when it fails.
//
// Wire format (all integers big-endian):
//
//	container := signature(8) chunk*
//	chunk     := length(u32) type(4) data(length) crc(u32)
//	signature := 89 50 4E 47 0D 0A 1A 0A
//	crc       := CRC-32/ISO-HDLC over type || data
//
// Failures are reported with a closed set of sentinel errors
// ([ErrInvalidCharacters], [ErrWrongLength], [ErrTruncated],
// [ErrBadHeader], [ErrChecksumMismatch], [ErrNotFound], [ErrNotUTF8]).
// Errors carry context (chunk index, byte offset) but always wrap one
// sentinel, so callers test with [errors.Is] or switch on [KindOf].
//
// [Scan] and [Repair] are a lenient side door for damaged files: they
// walk the framing without checking type letters or checksums, which is
// what a verify or repair tool needs.
//
// Everything here is synchronous and allocation-only. Distinct
// containers share no state; a single Container must not be mutated
// from several goroutines at once.
package pngchunk
