// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Tests for argument parsing and command dispatch. These cover the
// entry points every invocation goes through, so regressions here
// break every subcommand at once.
package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/garagehub-tui/internal/api"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"list", "--limit", "50"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.FlagOrDefault("limit", ""); got != "50" {
					t.Errorf("FlagOrDefault(limit) = %q, want %q", got, "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "7", "--format=html"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.FlagOrDefault("format", ""); got != "html" {
					t.Errorf("FlagOrDefault(format) = %q, want %q", got, "html")
				}
				if p.Positional(1) != "7" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "7")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"list", "--json"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "boolean flag with explicit false",
			args:    []string{"--json=false"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false for --json=false")
				}
			},
		},
		{
			name:    "short boolean flag",
			args:    []string{"-q"},
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("q") {
					t.Error("BoolFlag(q) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"search", "brakes", "grinding", "noise"},
			wantSub: "search",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "brakes grinding noise" {
					t.Errorf("PositionalFrom(1) joined = %q, want %q", joined, "brakes grinding noise")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"show", "--config", "/tmp/garagehub.toml", "12"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.FlagOrDefault("config", ""); got != "/tmp/garagehub.toml" {
					t.Errorf("FlagOrDefault(config) = %q, want %q", got, "/tmp/garagehub.toml")
				}
				if p.Positional(1) != "12" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "12")
				}
			},
		},
		{
			name: "lowercase plate stays positional",
			// Plates come in unnormalized; nothing should eat them.
			args:    []string{"abc123"},
			wantSub: "abc123",
			validate: func(t *testing.T, p *ArgParser) {
				if got := p.JoinPositional(); got != "abc123" {
					t.Errorf("JoinPositional() = %q, want %q", got, "abc123")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagInt64(t *testing.T) {
	p := NewArgParser([]string{"--complaint", "42"})
	id, ok, err := p.FlagInt64("complaint")
	if err != nil || !ok || id != 42 {
		t.Errorf("FlagInt64(complaint) = (%d, %v, %v), want (42, true, nil)", id, ok, err)
	}

	p = NewArgParser([]string{"--complaint", "forty-two"})
	_, _, err = p.FlagInt64("complaint")
	if err == nil {
		t.Error("FlagInt64 should reject a non-numeric value")
	}
	if err != nil && !strings.Contains(err.Error(), "complaint") {
		t.Errorf("error should name the flag, got %v", err)
	}

	p = NewArgParser(nil)
	id, ok, err = p.FlagInt64("complaint")
	if err != nil || ok || id != 0 {
		t.Errorf("absent FlagInt64 = (%d, %v, %v), want (0, false, nil)", id, ok, err)
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name string
		args []string
		def  int
		want int
	}{
		{"flag present", []string{"--limit", "10"}, 20, 10},
		{"flag absent", nil, 20, 20},
		{"malformed falls back", []string{"--limit", "lots"}, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if got := p.FlagIntOrDefault("limit", tt.def); got != tt.want {
				t.Errorf("FlagIntOrDefault = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	p := NewArgParser([]string{"--out", "/tmp", "--confirm"})
	if !p.HasFlag("out") {
		t.Error("HasFlag(out) should be true")
	}
	if !p.HasFlag("confirm") {
		t.Error("HasFlag(confirm) should be true")
	}
	if p.HasFlag("open") {
		t.Error("HasFlag(open) should be false")
	}
}

// =============================================================================
// COMMAND DISPATCH TESTS (cli.go)
// =============================================================================

func TestParse_CommandRouting(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"bare invocation", nil, CmdTUI},
		{"submit", []string{"submit", "--text", "brakes grinding badly"}, CmdSubmit},
		{"search", []string{"search", "ABC123"}, CmdSearch},
		{"stats", []string{"stats"}, CmdStats},
		{"chat", []string{"chat"}, CmdChat},
		{"history", []string{"history", "list"}, CmdHistory},
		{"config", []string{"config", "get", "api.base_url"}, CmdConfig},
		{"doctor", []string{"doctor"}, CmdDoctor},
		{"demo", []string{"demo"}, CmdDemo},
		{"version word", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help word", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Parse(tt.argv)
			if err != nil {
				t.Fatalf("Parse(%v) error: %v", tt.argv, err)
			}
			if args.Command != tt.want {
				t.Errorf("Parse(%v).Command = %v, want %v", tt.argv, args.Command, tt.want)
			}
		})
	}
}

func TestParse_UnknownCommand(t *testing.T) {
	_, err := Parse([]string{"frobnicate"})
	if err == nil {
		t.Fatal("Parse should reject an unknown command")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("error should name the command, got %v", err)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	args, err := Parse([]string{"stats", "--api", "http://10.0.0.5:8000", "--quiet", "--json"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if args.API != "http://10.0.0.5:8000" {
		t.Errorf("API = %q, want the flag value", args.API)
	}
	if !args.Quiet {
		t.Error("Quiet should be true")
	}
	if !args.JSON {
		t.Error("JSON should be true")
	}
}

func TestParse_SearchQuery(t *testing.T) {
	args, err := Parse([]string{"search", "abc", "123"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if args.Query != "abc 123" {
		t.Errorf("Query = %q, want %q", args.Query, "abc 123")
	}
}

func TestParse_ChatFlags(t *testing.T) {
	args, err := Parse([]string{"chat", "--plain", "--complaint", "42"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !args.Plain {
		t.Error("Plain should be true")
	}
	if args.ComplaintID != 42 {
		t.Errorf("ComplaintID = %d, want 42", args.ComplaintID)
	}

	_, err = Parse([]string{"chat", "--complaint", "many"})
	if err == nil {
		t.Error("Parse should reject a non-numeric --complaint")
	}
}

func TestParse_HistorySubcommand(t *testing.T) {
	args, err := Parse([]string{"history", "search", "grinding", "noise"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if args.Subcommand != "search" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "search")
	}
	if args.Query != "grinding noise" {
		t.Errorf("Query = %q, want %q", args.Query, "grinding noise")
	}
}

func TestParse_ConfigSubcommand(t *testing.T) {
	args, err := Parse([]string{"config", "set", "ui.theme", "dark"})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "set")
	}
	if len(args.Rest) != 2 || args.Rest[0] != "ui.theme" || args.Rest[1] != "dark" {
		t.Errorf("Rest = %v, want [ui.theme dark]", args.Rest)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("12"); err != nil || id != 12 {
		t.Errorf("ParseID(12) = (%d, %v), want (12, nil)", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

// =============================================================================
// EXIT CODE TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", NewUsageError("missing plate"), ExitUsageError},
		{"not found", api.ErrNotFound, ExitNotFound},
		{"timeout", api.ErrTimeout, ExitTimeout},
		{"unavailable", api.ErrBackendUnavailable, ExitNetworkError},
		{"silenced not found keeps code", Silence(api.ErrNotFound), ExitNotFound},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSilence(t *testing.T) {
	err := Silence(&api.ClientError{Type: api.ErrTypeNotFound, Message: "No car found with license plate: XYZ"})

	var silent *SilentError
	if !errors.As(err, &silent) {
		t.Fatal("Silence should mark the error as already explained")
	}
	if !api.IsNotFound(err) {
		t.Error("silenced error should still unwrap to not-found")
	}
	if err.Error() != "No car found with license plate: XYZ" {
		t.Errorf("Error() = %q, should pass the wrapped text through", err.Error())
	}
}
