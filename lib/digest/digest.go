// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes content identifiers for chunks and whole
// chunk streams with BLAKE3 in keyed mode.
//
// Unlike the CRC stored in each chunk, which only catches accidental
// corruption, a digest identifies content: two chunks with the same
// type and payload have the same chunk digest in every file. "pngme
// inspect" prints both.
package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Size is the length of a digest in bytes.
const Size = 32

// Digest is a BLAKE3 keyed hash.
type Digest [Size]byte

type domainKey [32]byte

// Domain keys are ASCII names zero-padded to 32 bytes. Changing one
// changes every digest in its domain.
var (
	chunkDomainKey = domainKey{
		'p', 'n', 'g', 'm', 'e', '.', 'c', 'h', 'u', 'n', 'k',
	}

	streamDomainKey = domainKey{
		'p', 'n', 'g', 'm', 'e', '.', 's', 't', 'r', 'e', 'a', 'm',
	}

	nodeDomainKey = domainKey{
		'p', 'n', 'g', 'm', 'e', '.', 'n', 'o', 'd', 'e',
	}
)

// Chunk returns the digest of a chunk's 4-byte type followed by its
// payload. Length and CRC are not included: they are derived from the
// other two.
func Chunk(chunkType [4]byte, data []byte) Digest {
	hasher := newHasher(chunkDomainKey)
	hasher.Write(chunkType[:])
	hasher.Write(data)
	return sum(hasher)
}

// Stream returns the digest of an ordered list of chunk digests: the
// stream-domain hash of their Merkle root. An empty list has a digest
// too, so a signature-only file is still identified.
func Stream(chunks []Digest) Digest {
	if len(chunks) == 0 {
		return keyedHash(streamDomainKey, nil)
	}
	root := MerkleRoot(chunks)
	return keyedHash(streamDomainKey, root[:])
}

// MerkleRoot folds digests pairwise, left to right, into a single
// root. An odd node at the end of a level is promoted unchanged rather
// than duplicated. Panics on an empty list.
func MerkleRoot(digests []Digest) Digest {
	if len(digests) == 0 {
		panic("digest.MerkleRoot: empty digest list")
	}

	hasher := newHasher(nodeDomainKey)
	var combined [2 * Size]byte
	level := append([]Digest(nil), digests...)
	for len(level) > 1 {
		next := make([]Digest, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			copy(combined[:Size], level[i][:])
			copy(combined[Size:], level[i+1][:])
			hasher.Reset()
			hasher.Write(combined[:])
			next = append(next, sum(hasher))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}

// String returns the full hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for tables.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

// MarshalText implements encoding.TextMarshaler with the hex form.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Parse decodes a 64-character hex digest.
func Parse(text string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(digest[:], decoded)
	return digest, nil
}

func keyedHash(key domainKey, data []byte) Digest {
	hasher := newHasher(key)
	hasher.Write(data)
	return sum(hasher)
}

// newHasher cannot fail: NewKeyed only rejects keys that are not 32
// bytes.
func newHasher(key domainKey) *blake3.Hasher {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

func sum(hasher *blake3.Hasher) Digest {
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
