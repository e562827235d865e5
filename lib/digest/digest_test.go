// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"strings"
	"testing"
)

var (
	rustType = [4]byte{'R', 'u', 'S', 't'}
	textType = [4]byte{'t', 'E', 'X', 't'}
)

func TestChunkDeterministic(t *testing.T) {
	first := Chunk(rustType, []byte("message"))
	second := Chunk(rustType, []byte("message"))
	if first != second {
		t.Errorf("same input gave %s and %s", first, second)
	}
}

func TestChunkCoversTypeAndData(t *testing.T) {
	base := Chunk(rustType, []byte("message"))
	if Chunk(textType, []byte("message")) == base {
		t.Error("changing the type did not change the digest")
	}
	if Chunk(rustType, []byte("messagf")) == base {
		t.Error("changing the data did not change the digest")
	}
}

func TestDomainsAreSeparated(t *testing.T) {
	chunk := Chunk(rustType, nil)
	if keyedHash(streamDomainKey, rustType[:]) == chunk {
		t.Error("stream and chunk domains collide")
	}
	if keyedHash(nodeDomainKey, rustType[:]) == chunk {
		t.Error("node and chunk domains collide")
	}
}

func TestMerkleRoot(t *testing.T) {
	a := Chunk(rustType, []byte("a"))
	b := Chunk(rustType, []byte("b"))
	c := Chunk(rustType, []byte("c"))

	if MerkleRoot([]Digest{a}) != a {
		t.Error("single-element root is not the element")
	}

	ab := MerkleRoot([]Digest{a, b})
	if ab == MerkleRoot([]Digest{b, a}) {
		t.Error("root ignores order")
	}
	if MerkleRoot([]Digest{a, b, c}) != MerkleRoot([]Digest{ab, c}) {
		t.Error("odd node was not promoted")
	}
}

func TestMerkleRootDoesNotMutateInput(t *testing.T) {
	digests := []Digest{Chunk(rustType, []byte("a")), Chunk(rustType, []byte("b"))}
	saved := digests[0]
	MerkleRoot(digests)
	if digests[0] != saved {
		t.Error("MerkleRoot modified its input")
	}
}

func TestMerkleRootEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MerkleRoot(nil) did not panic")
		}
	}()
	MerkleRoot(nil)
}

func TestStream(t *testing.T) {
	a := Chunk(rustType, []byte("a"))
	if Stream(nil) == Stream([]Digest{a}) {
		t.Error("empty and one-chunk streams share a digest")
	}
	if Stream([]Digest{a}) == a {
		t.Error("stream digest equals the chunk digest")
	}
}

func TestFormatAndParse(t *testing.T) {
	digest := Chunk(rustType, []byte("message"))
	text := digest.String()
	if len(text) != 2*Size {
		t.Fatalf("String() length = %d", len(text))
	}
	if !strings.HasPrefix(text, digest.Short()) || len(digest.Short()) != 12 {
		t.Errorf("Short() = %q, String() = %q", digest.Short(), text)
	}

	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != digest {
		t.Errorf("Parse(%s) = %s", text, parsed)
	}

	if _, err := Parse("zz"); err == nil {
		t.Error("Parse(non-hex) succeeded")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Error("Parse(short) succeeded")
	}
}
