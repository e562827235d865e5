// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/pngme/lib/pngchunk"
)

// WriteFile writes data to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// ReadFile returns the contents of path.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// FlipBit returns a copy of data with bit index (counting from the
// most significant bit of byte 0) inverted.
func FlipBit(t *testing.T, data []byte, index int) []byte {
	t.Helper()
	if index < 0 || index >= len(data)*8 {
		t.Fatalf("bit %d out of range for %d bytes", index, len(data))
	}
	flipped := append([]byte(nil), data...)
	flipped[index/8] ^= 0x80 >> (index % 8)
	return flipped
}

// PNG serializes a chunk stream holding one chunk per (type, data)
// pair, in order.
func PNG(t *testing.T, pairs ...string) []byte {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("PNG needs type/data pairs, got %d strings", len(pairs))
	}
	chunks := make([]*pngchunk.Chunk, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		chunkType, err := pngchunk.ParseChunkType(pairs[i])
		if err != nil {
			t.Fatalf("chunk type %q: %v", pairs[i], err)
		}
		chunks = append(chunks, pngchunk.NewChunk(chunkType, []byte(pairs[i+1])))
	}
	return pngchunk.NewContainer(chunks).Bytes()
}
