// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"encoding/binary"
	"fmt"
)

// ScannedChunk is one chunk as found on the wire, before any
// validation. Type may hold non-letter bytes and StoredChecksum may be
// wrong; those are exactly the conditions a verify pass reports.
type ScannedChunk struct {
	// Offset is the position of the chunk's length field in the input.
	Offset int

	// Length is the declared payload length.
	Length uint32

	// Type is the raw 4-byte type field.
	Type [4]byte

	// Data is the payload. It aliases the scanned input.
	Data []byte

	// StoredChecksum is the CRC read from the wire.
	StoredChecksum uint32

	// ComputedChecksum is the CRC of Type and Data.
	ComputedChecksum uint32
}

// ChecksumValid reports whether the stored CRC matches the contents.
func (s ScannedChunk) ChecksumValid() bool {
	return s.StoredChecksum == s.ComputedChecksum
}

// TypeValid reports whether the raw type bytes form a valid
// [ChunkType] (four letters, reserved bit clear).
func (s ScannedChunk) TypeValid() bool {
	chunkType, err := NewChunkType(s.Type)
	return err == nil && chunkType.IsValid()
}

// TypeText returns the raw type bytes as text, with non-printable
// bytes escaped.
func (s ScannedChunk) TypeText() string {
	text := fmt.Sprintf("%q", string(s.Type[:]))
	return text[1 : len(text)-1]
}

// checksumOffset is the position of the chunk's CRC field.
func (s ScannedChunk) checksumOffset() int {
	return s.Offset + dataOffset + int(s.Length)
}

// Scan walks the chunk framing of a PNG stream without checking type
// letters or checksums. It fails only when the signature is wrong
// ([ErrBadHeader]) or a declared chunk runs past the end of the input
// ([ErrTruncated]). On a truncation error the chunks scanned before
// the bad one are returned alongside the error. Use it to diagnose or
// repair files that [ParseContainer] rejects.
func Scan(input []byte) ([]ScannedChunk, error) {
	if len(input) < SignatureSize || [SignatureSize]byte(input[:SignatureSize]) != Signature {
		return nil, fmt.Errorf("scanning: %w", ErrBadHeader)
	}

	var scanned []ScannedChunk
	offset := SignatureSize
	for offset < len(input) {
		remaining := input[offset:]
		if len(remaining) < ChunkOverhead {
			return scanned, fmt.Errorf("chunk %d at offset %d: %d trailing bytes: %w",
				len(scanned), offset, len(remaining), ErrTruncated)
		}
		length := binary.BigEndian.Uint32(remaining[0:lengthSize])
		if uint64(len(remaining)) < uint64(ChunkOverhead)+uint64(length) {
			return scanned, fmt.Errorf("chunk %d at offset %d declares %d data bytes: %w",
				len(scanned), offset, length, ErrTruncated)
		}

		code := [4]byte(remaining[lengthSize:dataOffset])
		dataEnd := dataOffset + int(length)
		data := remaining[dataOffset:dataEnd]
		scanned = append(scanned, ScannedChunk{
			Offset:           offset,
			Length:           length,
			Type:             code,
			Data:             data,
			StoredChecksum:   binary.BigEndian.Uint32(remaining[dataEnd : dataEnd+checksumSize]),
			ComputedChecksum: checksumRaw(code, data),
		})
		offset += ChunkOverhead + int(length)
	}
	return scanned, nil
}

// Repair returns a copy of input with every incorrect chunk CRC
// replaced by the computed value, along with the number of CRCs
// rewritten. The framing must be intact: Repair fails with the same
// errors as [Scan] and does not touch lengths or types.
func Repair(input []byte) ([]byte, int, error) {
	scanned, err := Scan(input)
	if err != nil {
		return nil, 0, err
	}
	output := make([]byte, len(input))
	copy(output, input)

	var repaired int
	for _, chunk := range scanned {
		if chunk.ChecksumValid() {
			continue
		}
		binary.BigEndian.PutUint32(output[chunk.checksumOffset():], chunk.ComputedChecksum)
		repaired++
	}
	return output, repaired, nil
}
