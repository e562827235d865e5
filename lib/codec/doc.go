// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration used when a chunk
// manifest is written in binary form ("pngme inspect --format cbor")
// or as RFC 8949 diagnostic notation ("--format diag").
//
// The encoder uses Core Deterministic Encoding (RFC 8949 section 4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. The same manifest always produces identical bytes, so two
// manifests can be compared with cmp(1).
//
// Manifest types carry `json` struct tags only. fxamacker/cbor falls
// back to them when `cbor` tags are absent, so one tag set controls
// naming for the JSON, YAML-adjacent, and CBOR outputs alike. Types
// implementing encoding.TextMarshaler (chunk types, digests) encode as
// CBOR text strings.
package codec
