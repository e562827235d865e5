// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"fmt"
	"slices"
	"strings"
)

// SignatureSize is the length of the PNG file signature.
const SignatureSize = 8

// Signature is the fixed 8-byte prefix of every PNG file.
var Signature = [SignatureSize]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// Container is a PNG signature followed by an ordered list of chunks.
// The order is preserved by every operation and is the order chunks are
// serialized in.
type Container struct {
	header [SignatureSize]byte
	chunks []*Chunk
}

// NewContainer builds a container with the standard signature and the
// given chunks, in order. The slice is copied; chunks must not be nil.
func NewContainer(chunks []*Chunk) *Container {
	return &Container{
		header: Signature,
		chunks: slices.Clone(chunks),
	}
}

// ParseContainer decodes a complete PNG chunk stream. Every chunk must
// parse and carry a correct checksum; the first failure aborts the
// parse and no container is returned. The stream must end exactly at a
// chunk boundary: leftover bytes too short to be a chunk are reported
// as [ErrTruncated].
func ParseContainer(input []byte) (*Container, error) {
	if len(input) < SignatureSize {
		return nil, fmt.Errorf("input is %d bytes, shorter than the signature: %w", len(input), ErrBadHeader)
	}
	if [SignatureSize]byte(input[:SignatureSize]) != Signature {
		return nil, fmt.Errorf("first bytes are % x: %w", input[:SignatureSize], ErrBadHeader)
	}

	var chunks []*Chunk
	offset := SignatureSize
	for offset < len(input) {
		chunk, err := ParseChunk(input[offset:])
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(chunks), offset, err)
		}
		chunks = append(chunks, chunk)
		offset += chunk.EncodedLen()
	}

	return &Container{
		header: Signature,
		chunks: chunks,
	}, nil
}

// Header returns the 8-byte signature.
func (c *Container) Header() [SignatureSize]byte {
	return c.header
}

// Chunks returns the chunks in order. The returned slice is a copy;
// reordering it does not affect the container.
func (c *Container) Chunks() []*Chunk {
	return slices.Clone(c.chunks)
}

// Len returns the number of chunks.
func (c *Container) Len() int {
	return len(c.chunks)
}

// Append adds a chunk at the end.
func (c *Container) Append(chunk *Chunk) {
	c.chunks = append(c.chunks, chunk)
}

// RemoveFirstOfType removes and returns the first chunk whose type is
// typeText. Returns [ErrNotFound] if there is none, or the
// [ParseChunkType] error if typeText is not a chunk type. On error the
// container is unchanged.
func (c *Container) RemoveFirstOfType(typeText string) (*Chunk, error) {
	chunkType, err := ParseChunkType(typeText)
	if err != nil {
		return nil, err
	}
	index := c.indexOf(chunkType)
	if index < 0 {
		return nil, fmt.Errorf("no %s chunk among %d chunks: %w", chunkType, len(c.chunks), ErrNotFound)
	}
	removed := c.chunks[index]
	c.chunks = slices.Delete(c.chunks, index, index+1)
	return removed, nil
}

// FindFirstOfType returns the first chunk whose type is typeText, or
// nil. Unlike [Container.RemoveFirstOfType], a malformed typeText is
// not an error: it simply matches nothing.
func (c *Container) FindFirstOfType(typeText string) *Chunk {
	chunkType, err := ParseChunkType(typeText)
	if err != nil {
		return nil
	}
	if index := c.indexOf(chunkType); index >= 0 {
		return c.chunks[index]
	}
	return nil
}

func (c *Container) indexOf(chunkType ChunkType) int {
	return slices.IndexFunc(c.chunks, func(chunk *Chunk) bool {
		return chunk.chunkType == chunkType
	})
}

// EncodedLen returns the serialized size of the container.
func (c *Container) EncodedLen() int {
	total := SignatureSize
	for _, chunk := range c.chunks {
		total += chunk.EncodedLen()
	}
	return total
}

// Bytes serializes the signature followed by every chunk in order.
func (c *Container) Bytes() []byte {
	output := make([]byte, 0, c.EncodedLen())
	output = append(output, c.header[:]...)
	for _, chunk := range c.chunks {
		output = chunk.AppendTo(output)
	}
	return output
}

// String renders the signature and one line per chunk.
func (c *Container) String() string {
	var builder strings.Builder
	builder.WriteString("PNG File:\n")
	fmt.Fprintf(&builder, "  Header: % x\n", c.header[:])
	fmt.Fprintf(&builder, "  Chunks (%d):\n", len(c.chunks))
	for _, chunk := range c.chunks {
		fmt.Fprintf(&builder, "    %s\n", chunk)
	}
	return builder.String()
}
