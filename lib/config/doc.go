// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads pngme's configuration file.
//
// The file is named by the PNGME_CONFIG environment variable ([Load])
// or passed explicitly ([LoadFile]). There is no discovery: with
// PNGME_CONFIG unset, [Load] returns [Default]. Command-line flags
// override individual values after loading.
//
// Two formats are accepted, chosen by extension:
//
//   - .yaml, .yml -- YAML via gopkg.in/yaml.v3, unknown keys rejected
//   - .json, .jsonc -- JSON with comments and trailing commas, stripped
//     by github.com/tidwall/jsonc before encoding/json
//
// ${VAR} and ${VAR:-default} references in path fields are expanded
// from the environment after loading. [Config.Validate] reports every
// problem at once via errors.Join.
package config
