// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxSecretFileSize bounds ReadFromPath. Identity files are a few
// hundred bytes; anything near this size is the wrong file.
const maxSecretFileSize = 1 << 20

// ReadFromPath reads a secret from path, or from stdin when path is
// "-". Surrounding whitespace is trimmed. The caller must Close the
// returned buffer. An empty secret is an error.
func ReadFromPath(path string) (*Buffer, error) {
	var source io.Reader
	if path == "-" {
		source = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(io.LimitReader(source, maxSecretFileSize+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("reading secret from %s: %w", path, err)
	}
	if len(data) > maxSecretFileSize {
		Zero(data)
		return nil, fmt.Errorf("secret in %s exceeds %d bytes", path, maxSecretFileSize)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret in %s is empty", path)
	}

	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
