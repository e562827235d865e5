// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import "errors"

// Sentinel errors. Every error returned by this package wraps exactly
// one of these.
var (
	// ErrInvalidCharacters: a chunk type contains a byte that is not an
	// ASCII letter.
	ErrInvalidCharacters = errors.New("chunk type must be four ASCII letters")

	// ErrWrongLength: chunk type text is not exactly 4 bytes long.
	ErrWrongLength = errors.New("chunk type must be exactly 4 characters")

	// ErrTruncated: the input ends before a declared chunk does.
	ErrTruncated = errors.New("truncated chunk")

	// ErrBadHeader: the input does not start with the PNG signature.
	ErrBadHeader = errors.New("missing or invalid PNG signature")

	// ErrChecksumMismatch: the stored CRC does not match the chunk
	// contents.
	ErrChecksumMismatch = errors.New("chunk checksum mismatch")

	// ErrNotFound: no chunk of the requested type exists.
	ErrNotFound = errors.New("chunk not found")

	// ErrNotUTF8: a payload is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("chunk data is not valid UTF-8")
)

// ErrorKind identifies which sentinel an error wraps.
type ErrorKind int

const (
	// KindUnknown is returned by [KindOf] for nil errors and errors
	// that did not originate in this package.
	KindUnknown ErrorKind = iota
	KindInvalidCharacters
	KindWrongLength
	KindTruncated
	KindBadHeader
	KindChecksumMismatch
	KindNotFound
	KindNotUTF8
)

var kindSentinels = []struct {
	kind     ErrorKind
	sentinel error
	name     string
}{
	{KindInvalidCharacters, ErrInvalidCharacters, "invalid_characters"},
	{KindWrongLength, ErrWrongLength, "wrong_length"},
	{KindTruncated, ErrTruncated, "truncated"},
	{KindBadHeader, ErrBadHeader, "bad_header"},
	{KindChecksumMismatch, ErrChecksumMismatch, "checksum_mismatch"},
	{KindNotFound, ErrNotFound, "not_found"},
	{KindNotUTF8, ErrNotUTF8, "not_utf8"},
}

// KindOf reports which sentinel err wraps.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, entry := range kindSentinels {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}
	return KindUnknown
}

// String returns a stable snake_case name for the kind, suitable for
// JSON output and log attributes.
func (k ErrorKind) String() string {
	for _, entry := range kindSentinels {
		if entry.kind == k {
			return entry.name
		}
	}
	return "unknown"
}
