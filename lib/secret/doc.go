// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds sensitive bytes (age identities and decrypted
// message plaintext) in memory outside the Go heap.
//
// [Buffer] allocates with mmap(MAP_ANONYMOUS), locks the pages with
// mlock so they are never swapped, and marks them MADV_DONTDUMP so they
// stay out of core dumps. Close zeroes, unlocks, and unmaps the region.
// The garbage collector never sees the memory, so it cannot leave
// stray copies behind.
//
// Constructors:
//
//   - [New] -- zero-filled buffer of a given size
//   - [NewFromBytes] -- copies into protected memory and zeroes the source
//   - [ReadFromPath] -- reads a file (or stdin) into protected memory
//
// Depends on golang.org/x/sys/unix. Imported by lib/sealed.
package secret
