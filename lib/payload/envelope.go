// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bureau-foundation/pngme/lib/sealed"
)

// MaxMessageSize caps the uncompressed size an envelope may declare.
// A hostile chunk cannot make Decode allocate more than this.
const MaxMessageSize = 64 << 20

// envelopeMagic starts every compressed payload. The last byte is the
// envelope version.
var envelopeMagic = []byte{'P', 'M', 'Z', 0x01}

const envelopeHeaderSize = 4 + 1 + 4

// ErrBadEnvelope is returned for data that carries the envelope magic
// but cannot be decoded.
var ErrBadEnvelope = errors.New("malformed compression envelope")

// IsCompressed reports whether data starts with the envelope magic.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, envelopeMagic)
}

// Compress wraps message in an envelope using the given choice. It
// returns the message unchanged with [CompressionNone] when the choice
// is none or when compression would not make it smaller. A message that
// would be mistaken for an envelope or a sealed payload is instead
// stored in an envelope tagged [CompressionNone].
func Compress(message []byte, choice Compression) ([]byte, CompressionTag, error) {
	if len(message) > MaxMessageSize {
		return nil, 0, fmt.Errorf("message is %d bytes, limit is %d", len(message), MaxMessageSize)
	}
	tag := choice.Tag
	if choice.Auto {
		tag = SelectCompression(message)
	}
	if tag == CompressionNone {
		return store(message), CompressionNone, nil
	}

	body, err := compress(message, tag)
	if errors.Is(err, errIncompressible) {
		return store(message), CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return wrap(tag, len(message), body), tag, nil
}

// store returns message bare unless its prefix is ambiguous.
func store(message []byte) []byte {
	if !IsCompressed(message) && !sealed.IsSealed(message) {
		return message
	}
	return wrap(CompressionNone, len(message), message)
}

func wrap(tag CompressionTag, size int, body []byte) []byte {
	envelope := make([]byte, 0, envelopeHeaderSize+len(body))
	envelope = append(envelope, envelopeMagic...)
	envelope = append(envelope, byte(tag))
	envelope = binary.BigEndian.AppendUint32(envelope, uint32(size))
	envelope = append(envelope, body...)
	return envelope
}

// Decompress unwraps an envelope produced by [Compress]. Data without
// the magic is returned unchanged with [CompressionNone].
func Decompress(data []byte) ([]byte, CompressionTag, error) {
	if !IsCompressed(data) {
		return data, CompressionNone, nil
	}
	if len(data) < envelopeHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadEnvelope, len(data))
	}

	tag := CompressionTag(data[len(envelopeMagic)])
	size := binary.BigEndian.Uint32(data[len(envelopeMagic)+1:])
	if size > MaxMessageSize {
		return nil, 0, fmt.Errorf("%w: declared size %d exceeds limit %d", ErrBadEnvelope, size, MaxMessageSize)
	}

	body := data[envelopeHeaderSize:]
	if tag == CompressionNone {
		if len(body) != int(size) {
			return nil, 0, fmt.Errorf("%w: stored body is %d bytes, header says %d", ErrBadEnvelope, len(body), size)
		}
		return bytes.Clone(body), CompressionNone, nil
	}

	message, err := decompress(body, tag, int(size))
	if err != nil {
		if errors.Is(err, ErrBadEnvelope) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrBadEnvelope, err)
	}
	return message, tag, nil
}
