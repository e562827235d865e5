// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngfile

import (
	"fmt"
	"io"
)

// maxStdinSize bounds a chunk stream read from stdin. Files on disk
// are read whole.
const maxStdinSize = 256 << 20

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxStdinSize {
		return nil, fmt.Errorf("input exceeds %d bytes", maxStdinSize)
	}
	return data, nil
}
