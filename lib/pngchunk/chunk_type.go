// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import (
	"bytes"
	"fmt"
)

// reservedBit is bit 5 of the third type byte. For letters it is the
// ASCII case bit; PNG requires it clear.
const reservedBit = 0x20

// ChunkType is the 4-byte tag identifying a chunk, such as "IHDR" or
// "tEXt". Values built by [NewChunkType] or [ParseChunkType] hold four
// ASCII letters. The zero value holds four NUL bytes and reports
// IsValid() == false.
//
// ChunkType is comparable with == and safe to use as a map key.
type ChunkType struct {
	code [4]byte
}

// NewChunkType builds a ChunkType from raw bytes. It only checks that
// every byte is an ASCII letter: a type with the reserved bit set (a
// lowercase third letter) is accepted here and reported by
// [ChunkType.IsReservedBitValid].
func NewChunkType(code [4]byte) (ChunkType, error) {
	for index, b := range code {
		if !isASCIILetter(b) {
			return ChunkType{}, fmt.Errorf("byte %d is 0x%02x: %w", index, b, ErrInvalidCharacters)
		}
	}
	return ChunkType{code: code}, nil
}

// ParseChunkType builds a ChunkType from its text form. The text must
// be exactly 4 bytes long.
func ParseChunkType(text string) (ChunkType, error) {
	if len(text) != 4 {
		return ChunkType{}, fmt.Errorf("%q has %d bytes: %w", text, len(text), ErrWrongLength)
	}
	chunkType, err := NewChunkType([4]byte{text[0], text[1], text[2], text[3]})
	if err != nil {
		return ChunkType{}, fmt.Errorf("chunk type %q: %w", text, err)
	}
	return chunkType, nil
}

// MustParseChunkType is ParseChunkType for compile-time constants.
// Panics on invalid input.
func MustParseChunkType(text string) ChunkType {
	chunkType, err := ParseChunkType(text)
	if err != nil {
		panic("pngchunk: " + err.Error())
	}
	return chunkType
}

// Bytes returns the four type bytes.
func (t ChunkType) Bytes() [4]byte {
	return t.code
}

// IsCritical reports whether a decoder must understand this chunk to
// render the image (first letter uppercase).
func (t ChunkType) IsCritical() bool {
	return isUpper(t.code[0])
}

// IsPublic reports whether the type is registered in the PNG
// specification rather than private to an application (second letter
// uppercase).
func (t ChunkType) IsPublic() bool {
	return isUpper(t.code[1])
}

// IsReservedBitValid reports whether the reserved bit is clear (third
// letter uppercase). Current PNG versions require it to be clear.
func (t ChunkType) IsReservedBitValid() bool {
	return t.code[2]&reservedBit == 0
}

// IsSafeToCopy reports whether an editor that does not recognize the
// chunk may copy it into a modified file (fourth letter lowercase).
func (t ChunkType) IsSafeToCopy() bool {
	return isLower(t.code[3])
}

// IsValid reports whether every byte is an ASCII letter and the
// reserved bit is clear.
func (t ChunkType) IsValid() bool {
	if !t.IsReservedBitValid() {
		return false
	}
	for _, b := range t.code {
		if !isASCIILetter(b) {
			return false
		}
	}
	return true
}

// Compare orders chunk types byte-wise, returning -1, 0, or +1.
func (t ChunkType) Compare(other ChunkType) int {
	return bytes.Compare(t.code[:], other.code[:])
}

// String returns the four letters as text.
func (t ChunkType) String() string {
	return string(t.code[:])
}

// MarshalText implements [encoding.TextMarshaler], so chunk types
// appear as "tEXt" rather than a byte array in JSON, YAML, and CBOR.
func (t ChunkType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] with the same
// rules as [ParseChunkType].
func (t *ChunkType) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }

func isLower(b byte) bool { return 'a' <= b && b <= 'z' }

func isASCIILetter(b byte) bool { return isUpper(b) || isLower(b) }
