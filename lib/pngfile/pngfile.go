// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pngfile reads chunk streams from disk and writes them back
// atomically.
//
// A write never leaves a partially written target: the new contents go
// to a temporary file in the target's directory, which is fsynced and
// renamed into place. When the target already exists its permission
// bits are kept; otherwise the configured mode applies. With
// [Options.Backup] set, the previous contents are first copied to
// "<path>.bak". A path naming a symbolic link writes through to the
// link's target, which keeps the link in place.
package pngfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/bureau-foundation/pngme/lib/pngchunk"
)

// BackupSuffix is appended to the target path to name the backup copy.
const BackupSuffix = ".bak"

// DefaultMode is the permission for newly created files when
// [Options.Mode] is zero.
const DefaultMode fs.FileMode = 0o644

// Options controls how [Write] replaces a file.
type Options struct {
	// Mode is the permission for a newly created target. Ignored when
	// the target already exists.
	Mode fs.FileMode

	// Backup copies an existing target to path+BackupSuffix before
	// replacing it.
	Backup bool
}

// Result describes a completed write.
type Result struct {
	Path   string
	Size   int
	Mode   fs.FileMode
	Backup string // empty when no backup was made
}

// ReadRaw returns the raw contents of path, or of stdin when path is
// "-".
func ReadRaw(path string) ([]byte, error) {
	if path == "-" {
		data, err := readAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Read parses path as a strict chunk stream.
func Read(path string) (*pngchunk.Container, error) {
	data, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}
	container, err := pngchunk.ParseContainer(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return container, nil
}

// Write atomically replaces path with data.
func Write(path string, data []byte, options Options) (Result, error) {
	result := Result{Path: path, Size: len(data), Mode: options.Mode}
	if result.Mode == 0 {
		result.Mode = DefaultMode
	}

	target, err := resolveLink(path)
	if err != nil {
		return Result{}, err
	}

	existing, err := os.Stat(target)
	switch {
	case err == nil:
		if !existing.Mode().IsRegular() {
			return Result{}, fmt.Errorf("%s is not a regular file", path)
		}
		result.Mode = existing.Mode().Perm()
		if options.Backup {
			backupPath := target + BackupSuffix
			if err := copyFile(target, backupPath, result.Mode); err != nil {
				return Result{}, err
			}
			result.Backup = backupPath
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Result{}, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := writeAtomic(target, data, result.Mode); err != nil {
		return Result{}, err
	}
	return result, nil
}

// resolveLink returns the file a symbolic link at path points to, or
// path itself when it is not a link.
func resolveLink(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return path, nil
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolving link %s: %w", path, err)
	}
	return target, nil
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file for %s: %w", path, err)
	}
	if err := file.Chmod(mode); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("setting mode on temporary file for %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file for %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file for %s: %w", path, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", path, err)
	}

	if err := syncDirectory(directory); err != nil {
		return fmt.Errorf("%s was replaced but the rename may not be durable: %w", path, err)
	}
	return nil
}

// syncDirectory makes a rename in directory durable. Filesystems that
// cannot sync a directory report EINVAL, which is not an error here.
var syncDirectory = func(directory string) error {
	parent, err := os.Open(directory)
	if err != nil {
		return fmt.Errorf("opening directory %s: %w", directory, err)
	}
	defer parent.Close()
	if err := parent.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
		return fmt.Errorf("syncing directory %s: %w", directory, err)
	}
	return nil
}

func copyFile(source, destination string, mode fs.FileMode) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s for backup: %w", source, err)
	}
	if err := writeAtomic(destination, data, mode); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}
