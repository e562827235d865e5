// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"github.com/bureau-foundation/pngme/lib/digest"
	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
)

// Manifest describes a chunk stream. Its field names are the keys of
// the json, yaml, and cbor output formats.
type Manifest struct {
	Path   string        `json:"path"   yaml:"path"`
	Size   int           `json:"size"   yaml:"size"`
	Digest digest.Digest `json:"digest" yaml:"digest"`
	Totals Totals        `json:"totals" yaml:"totals"`
	Chunks []ChunkInfo   `json:"chunks" yaml:"chunks"`
}

// Totals aggregates over all chunks.
type Totals struct {
	Chunks    int `json:"chunks"    yaml:"chunks"`
	Critical  int `json:"critical"  yaml:"critical"`
	Ancillary int `json:"ancillary" yaml:"ancillary"`

	// Envelopes counts chunks whose data is compressed or sealed.
	Envelopes int `json:"envelopes" yaml:"envelopes"`

	DataBytes uint64 `json:"data_bytes" yaml:"data_bytes"`

	// OverheadBytes is the signature plus the length, type, and CRC
	// fields of every chunk.
	OverheadBytes uint64 `json:"overhead_bytes" yaml:"overhead_bytes"`
}

// ChunkInfo describes one chunk.
type ChunkInfo struct {
	Index      int                `json:"index"         yaml:"index"`
	Offset     int                `json:"offset"        yaml:"offset"`
	Type       pngchunk.ChunkType `json:"type"          yaml:"type"`
	Critical   bool               `json:"critical"      yaml:"critical"`
	Public     bool               `json:"public"        yaml:"public"`
	SafeToCopy bool               `json:"safe_to_copy"  yaml:"safe_to_copy"`
	Length     uint32             `json:"length"        yaml:"length"`
	Checksum   uint32             `json:"checksum"      yaml:"checksum"`
	Digest     digest.Digest      `json:"digest"        yaml:"digest"`

	// Payload layers, when the data is a pngme message envelope.
	Compression string `json:"compression,omitempty"  yaml:"compression,omitempty"`
	MessageSize uint32 `json:"message_size,omitempty" yaml:"message_size,omitempty"`
	Sealed      bool   `json:"sealed,omitempty"       yaml:"sealed,omitempty"`

	data []byte
}

// Flags renders the four type properties as letters: C or a
// (critical or ancillary), P or p (public or private), R when the
// reserved bit is clear, and S or u (safe or unsafe to copy).
func (c ChunkInfo) Flags() string {
	flags := []byte("apRu")
	if c.Critical {
		flags[0] = 'C'
	}
	if c.Public {
		flags[1] = 'P'
	}
	if !c.Type.IsReservedBitValid() {
		flags[2] = 'r'
	}
	if c.SafeToCopy {
		flags[3] = 'S'
	}
	return string(flags)
}

// BuildManifest describes container, which was read from path and
// serialized to size bytes.
func BuildManifest(path string, size int, container *pngchunk.Container) *Manifest {
	manifest := &Manifest{
		Path:   path,
		Size:   size,
		Chunks: make([]ChunkInfo, 0, container.Len()),
	}
	manifest.Totals.OverheadBytes = pngchunk.SignatureSize

	digests := make([]digest.Digest, 0, container.Len())
	offset := pngchunk.SignatureSize
	for index, chunk := range container.Chunks() {
		chunkType := chunk.Type()
		chunkDigest := digest.Chunk(chunkType.Bytes(), chunk.Data())
		digests = append(digests, chunkDigest)

		info := ChunkInfo{
			Index:      index,
			Offset:     offset,
			Type:       chunkType,
			Critical:   chunkType.IsCritical(),
			Public:     chunkType.IsPublic(),
			SafeToCopy: chunkType.IsSafeToCopy(),
			Length:     chunk.Length(),
			Checksum:   chunk.Checksum(),
			Digest:     chunkDigest,
			data:       chunk.Data(),
		}
		layers := payload.Peek(chunk.Data())
		if layers.Compression != payload.CompressionNone {
			info.Compression = layers.Compression.String()
			info.MessageSize = layers.MessageSize
		}
		info.Sealed = layers.Sealed
		manifest.Chunks = append(manifest.Chunks, info)

		if info.Critical {
			manifest.Totals.Critical++
		} else {
			manifest.Totals.Ancillary++
		}
		if info.Compression != "" || info.Sealed {
			manifest.Totals.Envelopes++
		}
		manifest.Totals.DataBytes += uint64(chunk.Length())
		manifest.Totals.OverheadBytes += pngchunk.ChunkOverhead
		offset += chunk.EncodedLen()
	}
	manifest.Totals.Chunks = len(manifest.Chunks)
	manifest.Digest = digest.Stream(digests)
	return manifest
}
