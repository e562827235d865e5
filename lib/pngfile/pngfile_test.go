// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngfile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/pngme/lib/pngchunk"
	"github.com/bureau-foundation/pngme/lib/testutil"
)

func TestReadParsesContainer(t *testing.T) {
	path := testutil.WriteFile(t, "in.png", testutil.PNG(t, "IHDR", "header", "RuSt", "hello"))

	container, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if container.Len() != 2 {
		t.Errorf("Len() = %d, want 2", container.Len())
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v, want fs.ErrNotExist", err)
	}

	path := testutil.WriteFile(t, "bad.png", []byte("not a png at all"))
	_, err = Read(path)
	if !errors.Is(err, pngchunk.ErrBadHeader) {
		t.Errorf("bad header: got %v, want ErrBadHeader", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestWriteNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	data := testutil.PNG(t, "RuSt", "hello")

	result, err := Write(path, data, Options{Mode: 0o600})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(testutil.ReadFile(t, path), data) {
		t.Error("written contents differ")
	}
	if result.Size != len(data) || result.Backup != "" {
		t.Errorf("result = %+v", result)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}

func TestWriteDefaultMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	result, err := Write(path, []byte("x"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Mode != DefaultMode {
		t.Errorf("mode = %o, want %o", result.Mode, DefaultMode)
	}
}

func TestWriteKeepsExistingMode(t *testing.T) {
	path := testutil.WriteFile(t, "in.png", []byte("old"))
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}

	if _, err := Write(path, []byte("new"), Options{Mode: 0o600}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %o, want 640 kept from the original", info.Mode().Perm())
	}
	if got := string(testutil.ReadFile(t, path)); got != "new" {
		t.Errorf("contents = %q, want new", got)
	}
}

func TestWriteBackup(t *testing.T) {
	path := testutil.WriteFile(t, "in.png", []byte("old"))

	result, err := Write(path, []byte("new"), Options{Backup: true})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if result.Backup != path+BackupSuffix {
		t.Errorf("backup = %q, want %q", result.Backup, path+BackupSuffix)
	}
	if got := string(testutil.ReadFile(t, result.Backup)); got != "old" {
		t.Errorf("backup contents = %q, want old", got)
	}
	if got := string(testutil.ReadFile(t, path)); got != "new" {
		t.Errorf("contents = %q, want new", got)
	}
}

func TestWriteBackupSkippedForNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	result, err := Write(path, []byte("new"), Options{Backup: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Backup != "" {
		t.Errorf("backup = %q for a new file", result.Backup)
	}
	if _, err := os.Stat(path + BackupSuffix); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("backup file exists: %v", err)
	}
}

func TestWriteLeavesNoTemporaryFiles(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "out.png")
	for range 3 {
		if _, err := Write(path, []byte("data"), Options{}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Errorf("directory holds %v, want only out.png", names)
	}
}

func TestWriteRejectsDirectory(t *testing.T) {
	if _, err := Write(t.TempDir(), []byte("x"), Options{}); err == nil {
		t.Error("Write over a directory succeeded")
	}
}

func TestWriteThroughSymlink(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "real.png")
	if err := os.WriteFile(target, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(directory, "link.png")
	if err := os.Symlink("real.png", link); err != nil {
		t.Fatal(err)
	}

	result, err := Write(link, []byte("new"), Options{Backup: true})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("link was replaced by a %s", info.Mode().Type())
	}
	if got := string(testutil.ReadFile(t, target)); got != "new" {
		t.Errorf("target contents = %q, want %q", got, "new")
	}
	if result.Mode != 0o600 {
		t.Errorf("Mode = %o, want 600", result.Mode)
	}
	if result.Backup != target+BackupSuffix {
		t.Errorf("Backup = %q, want %q", result.Backup, target+BackupSuffix)
	}
	if got := string(testutil.ReadFile(t, result.Backup)); got != "old" {
		t.Errorf("backup contents = %q, want %q", got, "old")
	}
}

func TestWriteDanglingSymlink(t *testing.T) {
	directory := t.TempDir()
	link := filepath.Join(directory, "link.png")
	if err := os.Symlink("missing.png", link); err != nil {
		t.Fatal(err)
	}

	if _, err := Write(link, []byte("new"), Options{}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist", err)
	}
	if info, err := os.Lstat(link); err != nil || info.Mode()&fs.ModeSymlink == 0 {
		t.Errorf("link was disturbed: %v", err)
	}
}

func TestWriteReportsDirectorySyncFailure(t *testing.T) {
	failure := errors.New("device gone")
	original := syncDirectory
	syncDirectory = func(string) error { return failure }
	t.Cleanup(func() { syncDirectory = original })

	path := filepath.Join(t.TempDir(), "out.png")
	if _, err := Write(path, []byte("data"), Options{}); !errors.Is(err, failure) {
		t.Fatalf("got %v, want %v", err, failure)
	}
	if got := string(testutil.ReadFile(t, path)); got != "data" {
		t.Errorf("contents = %q, want %q", got, "data")
	}
}
