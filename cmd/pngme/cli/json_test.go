// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
)

func TestEmitJSONDisabled(t *testing.T) {
	var output JSONOutput
	done, err := output.EmitJSON([]string{"a"})
	if done || err != nil {
		t.Errorf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}
}

func TestNormalizeNilSlice(t *testing.T) {
	var entries []string
	normalized, ok := normalizeNilSlice(entries).([]string)
	if !ok || normalized == nil {
		t.Errorf("normalizeNilSlice(nil slice) = %#v, want empty slice", normalized)
	}

	value := map[string]int{"a": 1}
	if got := normalizeNilSlice(value).(map[string]int); got["a"] != 1 {
		t.Errorf("non-slice value changed: %v", got)
	}
}
