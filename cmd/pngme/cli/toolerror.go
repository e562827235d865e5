// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

// ErrorCategory classifies command errors so scripts (via the exit
// path) and tests can react without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: the caller gave bad input, such as a wrong
	// argument count or a chunk type that is not four letters.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a file or chunk does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryCorrupt: the input file is not a well-formed chunk stream
	// or a payload cannot be decoded.
	CategoryCorrupt ErrorCategory = "corrupt"

	// CategoryForbidden: permission denied, or a sealed message was
	// not addressed to the given identity.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryInternal: anything else, such as an I/O failure.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the original
// error so errors.Is and errors.As still see the full chain.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step, printed after the message.
	Hint string
}

// Error returns the message, followed by the hint when there is one.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Corrupt creates a corrupt-input error.
func Corrupt(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryCorrupt, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify returns err as a [ToolError], choosing the category from
// the sentinels it wraps. An error that already is a ToolError is
// returned unchanged. Returns nil for nil.
func Classify(err error) *ToolError {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError
	}

	classified := &ToolError{Category: CategoryInternal, Err: err}
	switch pngchunk.KindOf(err) {
	case pngchunk.KindInvalidCharacters, pngchunk.KindWrongLength:
		classified.Category = CategoryValidation
		classified.Hint = "Chunk types are four ASCII letters, e.g. RuSt."
		return classified
	case pngchunk.KindNotFound:
		classified.Category = CategoryNotFound
		classified.Hint = "Run 'pngme print <file>' to list the chunks."
		return classified
	case pngchunk.KindTruncated, pngchunk.KindBadHeader, pngchunk.KindChecksumMismatch:
		classified.Category = CategoryCorrupt
		classified.Hint = "Run 'pngme verify <file>' to locate the damage."
		return classified
	case pngchunk.KindNotUTF8:
		classified.Category = CategoryCorrupt
		classified.Hint = "Run 'pngme print <file>' to see the raw bytes."
		return classified
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		classified.Category = CategoryNotFound
	case errors.Is(err, fs.ErrPermission), errors.Is(err, sealed.ErrWrongIdentity):
		classified.Category = CategoryForbidden
	case errors.Is(err, payload.ErrIdentityRequired):
		classified.Category = CategoryValidation
		classified.Hint = "Pass --identity <file> or set decode.identity_file in the config."
	case errors.Is(err, payload.ErrBadEnvelope):
		classified.Category = CategoryCorrupt
	}
	return classified
}
