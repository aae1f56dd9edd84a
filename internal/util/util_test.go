// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STRING UTILITY TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"negative max", "hello", -1, ""},
		{"tiny max keeps prefix", "hello", 2, "he"},
		{"multibyte not split", "日本語のテキスト", 5, "日本..."},
		{"emoji not split", "🔧🔧🔧🔧🔧🔧", 4, "🔧..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.input, tc.maxRunes); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "abc", 5, "abc"},
		{"ascii cut", "abcdefgh", 6, "abc..."},
		{"zero width", "abc", 0, ""},
		{"cjk counts double", "日本語", 6, "日本語"},
		{"cjk cut", "日本語です", 6, "日..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateWidth(tc.input, tc.maxWidth); got != tc.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.input, tc.maxWidth, got, tc.want)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"abc", 3},
		{"", 0},
		{"日本語", 6},
		{"a日b", 4},
	}

	for _, tc := range tests {
		if got := StringWidth(tc.input); got != tc.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight(\"ab\", 5) = %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight should not cut wide strings, got %q", got)
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("日本語"); got != 3 {
		t.Errorf("RuneLen(日本語) = %d, want 3", got)
	}
	if got := RuneLen("abc"); got != 3 {
		t.Errorf("RuneLen(abc) = %d, want 3", got)
	}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestIntToString(t *testing.T) {
	if got := IntToString(42); got != "42" {
		t.Errorf("IntToString(42) = %q, want \"42\"", got)
	}
	if got := IntToString(-1); got != "-1" {
		t.Errorf("IntToString(-1) = %q, want \"-1\"", got)
	}
}

func TestInt64ToString(t *testing.T) {
	if got := Int64ToString(9000000000); got != "9000000000" {
		t.Errorf("Int64ToString = %q", got)
	}
}

func TestFloatToString(t *testing.T) {
	if got := FloatToString(0.916); got != "0.92" {
		t.Errorf("FloatToString(0.916) = %q, want \"0.92\"", got)
	}
	if got := FloatToStringPrec(12.345, 1); got != "12.3" {
		t.Errorf("FloatToStringPrec(12.345, 1) = %q, want \"12.3\"", got)
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("Content = %q, want \"first\"", data)
	}

	// Overwrite replaces content completely
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("Content after overwrite = %q, want \"second\"", data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Directory should contain only the target file, got %d entries", len(entries))
	}
}
