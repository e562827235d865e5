// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// lengthSize, typeSize, and checksumSize are the fixed fields
	// around a chunk's payload.
	lengthSize   = 4
	typeSize     = 4
	checksumSize = 4

	// ChunkOverhead is the number of bytes a chunk occupies beyond its
	// payload: length + type + checksum.
	ChunkOverhead = lengthSize + typeSize + checksumSize

	// dataOffset is where the payload starts within a serialized chunk.
	dataOffset = lengthSize + typeSize
)

// Chunk is one record of a PNG chunk stream. A Chunk is immutable: its
// payload is copied in on construction and its checksum is computed
// (or verified) exactly once.
type Chunk struct {
	chunkType ChunkType
	data      []byte
	checksum  uint32
}

// NewChunk builds a chunk from a type and payload and computes its
// checksum. The payload is copied. Panics if data is longer than a
// 32-bit length field can describe.
func NewChunk(chunkType ChunkType, data []byte) *Chunk {
	if uint64(len(data)) > math.MaxUint32 {
		panic(fmt.Sprintf("pngchunk: %d-byte payload does not fit a 32-bit length", len(data)))
	}
	owned := bytes.Clone(data)
	if owned == nil {
		owned = []byte{}
	}
	return &Chunk{
		chunkType: chunkType,
		data:      owned,
		checksum:  Checksum(chunkType, owned),
	}
}

// ParseChunk decodes the chunk at the start of input and verifies its
// checksum. Bytes after the chunk are ignored; use [Chunk.EncodedLen]
// to find where the next chunk starts.
func ParseChunk(input []byte) (*Chunk, error) {
	if len(input) < ChunkOverhead {
		return nil, fmt.Errorf("need at least %d bytes for a chunk, have %d: %w",
			ChunkOverhead, len(input), ErrTruncated)
	}

	length := binary.BigEndian.Uint32(input[0:lengthSize])

	chunkType, err := NewChunkType([4]byte(input[lengthSize:dataOffset]))
	if err != nil {
		return nil, fmt.Errorf("reading chunk type: %w", err)
	}

	// 64-bit arithmetic: a hostile length near 2^32 must not wrap.
	required := uint64(ChunkOverhead) + uint64(length)
	if uint64(len(input)) < required {
		return nil, fmt.Errorf("%s chunk declares %d data bytes, needs %d bytes total, have %d: %w",
			chunkType, length, required, len(input), ErrTruncated)
	}

	dataEnd := dataOffset + int(length)
	data := bytes.Clone(input[dataOffset:dataEnd])
	if data == nil {
		data = []byte{}
	}
	stored := binary.BigEndian.Uint32(input[dataEnd : dataEnd+checksumSize])

	computed := Checksum(chunkType, data)
	if computed != stored {
		return nil, fmt.Errorf("%s chunk: stored crc 0x%08x, computed 0x%08x: %w",
			chunkType, stored, computed, ErrChecksumMismatch)
	}

	return &Chunk{
		chunkType: chunkType,
		data:      data,
		checksum:  computed,
	}, nil
}

// Length returns the payload size in bytes.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.data))
}

// Type returns the chunk type.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the payload. The slice is shared with the chunk and
// must not be modified.
func (c *Chunk) Data() []byte {
	return c.data
}

// Checksum returns the CRC-32 of the type and payload.
func (c *Chunk) Checksum() uint32 {
	return c.checksum
}

// EncodedLen returns the serialized size: payload plus [ChunkOverhead].
func (c *Chunk) EncodedLen() int {
	return ChunkOverhead + len(c.data)
}

// DataAsText returns the payload as a string if it is valid UTF-8.
func (c *Chunk) DataAsText() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("%s chunk: %w", c.chunkType, ErrNotUTF8)
	}
	return string(c.data), nil
}

// Bytes serializes the chunk: length, type, payload, checksum.
func (c *Chunk) Bytes() []byte {
	return c.AppendTo(make([]byte, 0, c.EncodedLen()))
}

// AppendTo appends the serialized chunk to dst and returns the
// extended slice.
func (c *Chunk) AppendTo(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, c.Length())
	dst = append(dst, c.chunkType.code[:]...)
	dst = append(dst, c.data...)
	return binary.BigEndian.AppendUint32(dst, c.checksum)
}

// Equal reports whether two chunks have the same type, payload, and
// checksum.
func (c *Chunk) Equal(other *Chunk) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.chunkType == other.chunkType &&
		c.checksum == other.checksum &&
		bytes.Equal(c.data, other.data)
}

// String renders a one-line summary. Text payloads are quoted;
// anything else is shown as hex bytes.
func (c *Chunk) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s length=%d checksum=0x%08x data=", c.chunkType, len(c.data), c.checksum)
	if text, err := c.DataAsText(); err == nil {
		fmt.Fprintf(&builder, "%q", text)
	} else {
		fmt.Fprintf(&builder, "<% x>", c.data)
	}
	return builder.String()
}
