// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package message implements the commands that hide, recover, remove,
// and list messages stored in PNG chunks: encode, decode, remove, and
// print.
//
// encode appends one chunk per call. Its payload is the message text,
// optionally wrapped in a compression envelope and sealed to age
// recipients (see lib/payload). decode reverses whichever layers are
// present, so a plain chunk written by another tool decodes as-is.
package message
