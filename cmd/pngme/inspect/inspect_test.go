// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngme/cmd/pngme/cli"
	"github.com/bureau-foundation/pngme/lib/codec"
	"github.com/bureau-foundation/pngme/lib/digest"
	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/testutil"
)

func sampleContainer(t *testing.T) *pngchunk.Container {
	t.Helper()
	container, err := pngchunk.ParseContainer(testutil.PNG(t,
		"IHDR", "header",
		"tEXt", "Comment\x00hello",
		"RuSt", "This is a secret message!",
		"IEND", "",
	))
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	return container
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	fn()

	writer.Close()
	os.Stdout = original

	var buffer bytes.Buffer
	io.Copy(&buffer, reader)
	reader.Close()

	return buffer.String()
}

func TestBuildManifest(t *testing.T) {
	container := sampleContainer(t)
	manifest := BuildManifest("sample.png", container.EncodedLen(), container)

	if manifest.Totals.Chunks != 4 {
		t.Fatalf("Totals.Chunks = %d, want 4", manifest.Totals.Chunks)
	}
	if manifest.Totals.Critical != 3 || manifest.Totals.Ancillary != 1 {
		t.Errorf("critical/ancillary = %d/%d, want 3/1", manifest.Totals.Critical, manifest.Totals.Ancillary)
	}
	wantData := uint64(len("header") + len("Comment\x00hello") + len("This is a secret message!"))
	if manifest.Totals.DataBytes != wantData {
		t.Errorf("DataBytes = %d, want %d", manifest.Totals.DataBytes, wantData)
	}
	if got := manifest.Totals.DataBytes + manifest.Totals.OverheadBytes; got != uint64(container.EncodedLen()) {
		t.Errorf("data + overhead = %d, want encoded length %d", got, container.EncodedLen())
	}

	offset := pngchunk.SignatureSize
	var digests []digest.Digest
	for index, chunk := range container.Chunks() {
		info := manifest.Chunks[index]
		if info.Offset != offset {
			t.Errorf("chunk %d offset = %d, want %d", index, info.Offset, offset)
		}
		if info.Type != chunk.Type() || info.Length != chunk.Length() || info.Checksum != chunk.Checksum() {
			t.Errorf("chunk %d = %+v, does not match %s", index, info, chunk)
		}
		want := digest.Chunk(chunk.Type().Bytes(), chunk.Data())
		if info.Digest != want {
			t.Errorf("chunk %d digest = %s, want %s", index, info.Digest, want)
		}
		digests = append(digests, want)
		offset += chunk.EncodedLen()
	}
	if manifest.Digest != digest.Stream(digests) {
		t.Errorf("stream digest = %s, want %s", manifest.Digest, digest.Stream(digests))
	}
}

func TestChunkInfoFlags(t *testing.T) {
	manifest := BuildManifest("sample.png", 0, sampleContainer(t))
	want := []string{"CPRu", "aPRS", "CpRS", "CPRu"}
	for index, info := range manifest.Chunks {
		if got := info.Flags(); got != want[index] {
			t.Errorf("%s flags = %q, want %q", info.Type, got, want[index])
		}
	}
}

func TestBuildManifestDetectsEnvelopes(t *testing.T) {
	message := bytes.Repeat([]byte("compress me please "), 64)
	encoded, err := payload.Encode(message, payload.EncodeOptions{
		Compression: payload.Compression{Tag: payload.CompressionZstd},
	})
	if err != nil {
		t.Fatal(err)
	}
	chunkType := pngchunk.MustParseChunkType("RuSt")
	container := pngchunk.NewContainer([]*pngchunk.Chunk{pngchunk.NewChunk(chunkType, encoded.Data)})

	manifest := BuildManifest("x.png", container.EncodedLen(), container)
	info := manifest.Chunks[0]
	if info.Compression != "zstd" || info.MessageSize != uint32(len(message)) || info.Sealed {
		t.Errorf("layers = %q/%d/%v", info.Compression, info.MessageSize, info.Sealed)
	}
	if manifest.Totals.Envelopes != 1 {
		t.Errorf("Envelopes = %d, want 1", manifest.Totals.Envelopes)
	}
}

func TestStreamDigestSurvivesRepair(t *testing.T) {
	data := testutil.PNG(t, "RuSt", "hello", "IEND", "")
	// Corrupt the first chunk's stored CRC, which follows the 5 data bytes.
	damaged := testutil.FlipBit(t, data, (pngchunk.SignatureSize+8+5)*8)

	repaired, count, err := pngchunk.Repair(damaged)
	if err != nil || count != 1 {
		t.Fatalf("Repair = %d, %v", count, err)
	}
	original, err := pngchunk.ParseContainer(data)
	if err != nil {
		t.Fatal(err)
	}
	fixed, err := pngchunk.ParseContainer(repaired)
	if err != nil {
		t.Fatalf("repaired stream does not parse: %v", err)
	}
	if BuildManifest("a", 0, original).Digest != BuildManifest("b", 0, fixed).Digest {
		t.Error("stream digest changed across a checksum repair")
	}
}

func TestWriteManifestFormats(t *testing.T) {
	container := sampleContainer(t)
	manifest := BuildManifest("sample.png", container.EncodedLen(), container)
	digestText := manifest.Digest.String()

	t.Run("json", func(t *testing.T) {
		var buffer bytes.Buffer
		if err := writeManifest(&buffer, cli.NewStyles(&buffer), manifest, "json"); err != nil {
			t.Fatal(err)
		}
		var decoded struct {
			Digest string `json:"digest"`
			Chunks []struct {
				Type   string `json:"type"`
				Digest string `json:"digest"`
			} `json:"chunks"`
		}
		if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Digest != digestText {
			t.Errorf("digest = %q, want %q", decoded.Digest, digestText)
		}
		if len(decoded.Chunks) != 4 || decoded.Chunks[2].Type != "RuSt" {
			t.Errorf("chunks = %+v", decoded.Chunks)
		}
		if len(decoded.Chunks[0].Digest) != 2*digest.Size {
			t.Errorf("chunk digest %q is not hex", decoded.Chunks[0].Digest)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buffer bytes.Buffer
		if err := writeManifest(&buffer, cli.NewStyles(&buffer), manifest, "yaml"); err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(buffer.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if decoded["digest"] != digestText {
			t.Errorf("digest = %v, want %s", decoded["digest"], digestText)
		}
		chunks, ok := decoded["chunks"].([]any)
		if !ok || len(chunks) != 4 {
			t.Fatalf("chunks = %#v", decoded["chunks"])
		}
		first := chunks[0].(map[string]any)
		if first["type"] != "IHDR" {
			t.Errorf("first type = %v, want IHDR", first["type"])
		}
	})

	t.Run("cbor", func(t *testing.T) {
		var buffer bytes.Buffer
		if err := writeManifest(&buffer, cli.NewStyles(&buffer), manifest, "cbor"); err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := codec.Unmarshal(buffer.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid CBOR: %v", err)
		}
		if decoded["digest"] != digestText {
			t.Errorf("digest = %v, want %s", decoded["digest"], digestText)
		}
		chunks := decoded["chunks"].([]any)
		if chunks[3].(map[string]any)["type"] != "IEND" {
			t.Errorf("last chunk = %v", chunks[3])
		}

		// Deterministic encoding: the same manifest encodes identically.
		var again bytes.Buffer
		if err := writeManifest(&again, cli.NewStyles(&again), manifest, "cbor"); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buffer.Bytes(), again.Bytes()) {
			t.Error("CBOR encoding is not deterministic")
		}
	})

	t.Run("diag", func(t *testing.T) {
		var buffer bytes.Buffer
		if err := writeManifest(&buffer, cli.NewStyles(&buffer), manifest, "diag"); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{`"IHDR"`, `"digest"`, `"` + digestText + `"`} {
			if !strings.Contains(buffer.String(), want) {
				t.Errorf("diagnostic notation lacks %s", want)
			}
		}
	})

	t.Run("text", func(t *testing.T) {
		var buffer bytes.Buffer
		if err := writeManifest(&buffer, cli.NewStyles(&buffer), manifest, "text"); err != nil {
			t.Fatal(err)
		}
		output := buffer.String()
		for _, want := range []string{
			"sample.png",
			"4 chunks",
			"CPRu",
			manifest.Chunks[2].Digest.Short(),
			"This is a secret message!",
			"digest " + digestText,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output lacks %q:\n%s", want, output)
			}
		}
	})

	t.Run("highlighted json", func(t *testing.T) {
		var buffer bytes.Buffer
		styles := cli.NewStylesWithProfile(&buffer, termenv.ANSI256)
		if err := writeManifest(&buffer, styles, manifest, "json"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buffer.String(), "\x1b[") {
			t.Error("colored output has no escape sequences")
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(ansi.Strip(buffer.String())), &decoded); err != nil {
			t.Fatalf("stripped output is not JSON: %v", err)
		}
		if decoded["digest"] != digestText {
			t.Errorf("digest = %v", decoded["digest"])
		}
	})

	t.Run("unknown", func(t *testing.T) {
		err := writeManifest(io.Discard, cli.NewStyles(io.Discard), manifest, "xml")
		var toolError *cli.ToolError
		if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
			t.Errorf("error = %v, want a validation ToolError", err)
		}
	})
}

func TestInspectCommand(t *testing.T) {
	path := testutil.WriteFile(t, "in.png", testutil.PNG(t, "RuSt", "hello"))

	var err error
	output := captureStdout(t, func() {
		err = InspectCommand().Execute(context.Background(), []string{path, "--format", "json"}, nil)
	})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(output), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if raw["path"] != path || raw["size"] != float64(pngchunk.SignatureSize+pngchunk.ChunkOverhead+5) {
		t.Errorf("path/size = %v/%v", raw["path"], raw["size"])
	}
}

func TestInspectCommandRejectsCorruptFile(t *testing.T) {
	data := testutil.FlipBit(t, testutil.PNG(t, "RuSt", "hello"), (pngchunk.SignatureSize+8)*8)
	path := testutil.WriteFile(t, "bad.png", data)

	err := InspectCommand().Execute(context.Background(), []string{path}, nil)
	if cli.Classify(err).Category != cli.CategoryCorrupt {
		t.Errorf("error = %v, want corrupt", err)
	}
}
