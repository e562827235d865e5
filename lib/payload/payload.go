// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bureau-foundation/pngme/lib/sealed"
	"github.com/bureau-foundation/pngme/lib/secret"
)

// ErrIdentityRequired is returned by [Decode] for a sealed payload
// when no identity was supplied.
var ErrIdentityRequired = errors.New("message is sealed and no identity was given")

// EncodeOptions selects the layers [Encode] applies.
type EncodeOptions struct {
	Compression Compression

	// Recipients are age1... public keys. The payload is sealed when
	// at least one is given.
	Recipients []string
}

// Encoded describes what [Encode] produced.
type Encoded struct {
	Data        []byte
	Compression CompressionTag
	Sealed      bool
}

// Encode compresses then seals message according to options.
func Encode(message []byte, options EncodeOptions) (Encoded, error) {
	data, tag, err := Compress(message, options.Compression)
	if err != nil {
		return Encoded{}, fmt.Errorf("compressing message: %w", err)
	}
	if len(options.Recipients) == 0 {
		return Encoded{Data: data, Compression: tag}, nil
	}

	sealedData, err := sealed.Encrypt(data, options.Recipients)
	if err != nil {
		return Encoded{}, fmt.Errorf("sealing message: %w", err)
	}
	return Encoded{Data: sealedData, Compression: tag, Sealed: true}, nil
}

// DecodeOptions supplies what [Decode] may need.
type DecodeOptions struct {
	// Identity opens sealed payloads. It is borrowed, not closed.
	Identity *secret.Buffer
}

// Decoded is the recovered message and the layers that were removed.
type Decoded struct {
	Message     []byte
	Compression CompressionTag
	Sealed      bool
}

// Decode opens then decompresses data. Layers that are not present are
// skipped, so plain chunk data decodes to itself.
func Decode(data []byte, options DecodeOptions) (Decoded, error) {
	var decoded Decoded
	if sealed.IsSealed(data) {
		if options.Identity == nil {
			return Decoded{}, ErrIdentityRequired
		}
		opened, err := open(data, options.Identity)
		if err != nil {
			return Decoded{}, err
		}
		data = opened
		decoded.Sealed = true
	}

	message, tag, err := Decompress(data)
	if err != nil {
		return Decoded{}, err
	}
	decoded.Message = message
	decoded.Compression = tag
	return decoded, nil
}

// open decrypts data and returns a heap copy of the plaintext.
func open(data []byte, identity *secret.Buffer) ([]byte, error) {
	plaintext, err := sealed.Decrypt(data, identity)
	if err != nil {
		return nil, fmt.Errorf("opening sealed message: %w", err)
	}
	if plaintext == nil {
		return []byte{}, nil
	}
	defer plaintext.Close()
	return bytes.Clone(plaintext.Bytes()), nil
}

// Layers describes the payload layers visible on data without opening
// it. For sealed data the compression inside the seal is not visible
// and Compression is [CompressionNone].
type Layers struct {
	Sealed      bool
	Compression CompressionTag

	// MessageSize is the uncompressed size declared by the envelope
	// header, or 0 when there is no envelope.
	MessageSize uint32
}

// Peek reports which layers wrap data. It does not validate the
// envelope body.
func Peek(data []byte) Layers {
	if sealed.IsSealed(data) {
		return Layers{Sealed: true}
	}
	if !IsCompressed(data) || len(data) < envelopeHeaderSize {
		return Layers{}
	}
	return Layers{
		Compression: CompressionTag(data[len(envelopeMagic)]),
		MessageSize: binary.BigEndian.Uint32(data[len(envelopeMagic)+1:]),
	}
}
