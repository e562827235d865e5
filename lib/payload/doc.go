// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload turns a message into chunk data and back.
//
// Encoding is two optional layers applied in order:
//
//  1. Compression. The message is wrapped in an envelope:
//
//     magic "PMZ\x01" | tag (1 byte) | uncompressed size (BE u32) | body
//
//     Tags are [CompressionLZ4] (pierrec/lz4 block mode) and
//     [CompressionZstd] (klauspost/compress). Input that does not shrink
//     is stored bare, without an envelope.
//
//  2. Sealing. The (possibly compressed) bytes are encrypted to age
//     recipients via lib/sealed, producing armored text.
//
// [Decode] reverses whichever layers are present, recognizing each by
// its prefix. Data with neither prefix is returned as is, so messages
// written without options stay plain text in their chunks.
package payload
