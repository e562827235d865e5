// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for the pngme binary.
//
// Values are injected with -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/pngme/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without injection, [Info] falls back to the vcs.revision the Go
// toolchain stamps into module builds, then to "unknown".
package version
