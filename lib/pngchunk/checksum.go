// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngchunk

import "hash/crc32"

// crcTable is the reflected 0xEDB88320 table, which is the ISO-HDLC
// parameterization PNG specifies (poly 0x04C11DB7, init and xorout
// 0xFFFFFFFF, reflected in and out).
var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC-32 of a chunk: type bytes followed by data.
func Checksum(chunkType ChunkType, data []byte) uint32 {
	return checksumRaw(chunkType.code, data)
}

// checksumRaw is Checksum over unvalidated type bytes. [Scan] needs it
// for chunks whose type would not pass [NewChunkType].
func checksumRaw(code [4]byte, data []byte) uint32 {
	crc := crc32.Update(0, crcTable, code[:])
	return crc32.Update(crc, crcTable, data)
}
