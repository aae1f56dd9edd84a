// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/config"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/session"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// runCmd executes a handler's tea.Cmd and returns the produced message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("handler returned nil command")
	}
	return cmd()
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/h", "/help"},
		{"/?", "/help"},
		{"/quit", "/quit"},
		{"/q", "/quit"},
		{"/exit", "/quit"},
		{"/clear", "/clear"},
		{"/c", "/clear"},
		{"/export", "/export"},
		{"/history", "/history"},
		{"/past", "/history"},
	}

	for _, tt := range tests {
		cmd := r.Get(tt.input)
		if cmd == nil {
			t.Errorf("Get(%q) = nil, want %q", tt.input, tt.want)
			continue
		}
		if cmd.Name != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.input, cmd.Name, tt.want)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if cmd := r.Get("/bogus"); cmd != nil {
		t.Errorf("Get(/bogus) = %q, want nil", cmd.Name)
	}
}

func TestRegistryByCategory(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{Name: "/secret", Hidden: true, Category: "Navigation"})

	byCat := r.ByCategory()
	for _, want := range []string{"Navigation", "Session", "Archive"} {
		if len(byCat[want]) == 0 {
			t.Errorf("ByCategory() missing category %q", want)
		}
	}
	for _, cmd := range byCat["Navigation"] {
		if cmd.Name == "/secret" {
			t.Error("ByCategory() included a hidden command")
		}
	}
}

func TestRegistryAll(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	if len(all) < 8 {
		t.Errorf("All() returned %d commands, want at least 8", len(all))
	}
}

// =============================================================================
// PARSER
// =============================================================================

func TestParserParse(t *testing.T) {
	p := NewParser(NewRegistry())

	tests := []struct {
		name      string
		input     string
		isCommand bool
		cmdName   string
		args      []string
		wantErr   bool
	}{
		{"plain text", "my brakes are grinding", false, "", nil, false},
		{"simple command", "/help", true, "/help", nil, false},
		{"uppercase command", "/HELP", true, "/help", nil, false},
		{"alias", "/q", true, "/q", nil, false},
		{"leading whitespace", "  /help  ", true, "/help", nil, false},
		{"with args", "/history brake noise", true, "/history", []string{"brake", "noise"}, false},
		{"quoted arg", `/history "brake noise"`, true, "/history", []string{"brake noise"}, false},
		{"unknown command", "/teleport", true, "/teleport", nil, true},
		{"enum arg valid", "/export html", true, "/export", []string{"html"}, false},
		{"enum arg invalid", "/export pdf", true, "/export", []string{"pdf"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Parse(tt.input)
			if result.IsCommand != tt.isCommand {
				t.Errorf("Parse(%q).IsCommand = %v, want %v", tt.input, result.IsCommand, tt.isCommand)
			}
			if tt.cmdName != "" && result.CommandName != tt.cmdName {
				t.Errorf("Parse(%q).CommandName = %q, want %q", tt.input, result.CommandName, tt.cmdName)
			}
			if tt.args != nil && !reflect.DeepEqual(result.Args, tt.args) {
				t.Errorf("Parse(%q).Args = %v, want %v", tt.input, result.Args, tt.args)
			}
			if (result.Error != nil) != tt.wantErr {
				t.Errorf("Parse(%q).Error = %v, wantErr %v", tt.input, result.Error, tt.wantErr)
			}
		})
	}
}

func TestParseRawArgs(t *testing.T) {
	p := NewParser(NewRegistry())
	result := p.Parse("/history worn   brake pads")
	if result.RawArgs != "worn   brake pads" {
		t.Errorf("RawArgs = %q, want %q", result.RawArgs, "worn   brake pads")
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"one two three", []string{"one", "two", "three"}},
		{`one "two three"`, []string{"one", "two three"}},
		{`one 'two three'`, []string{"one", "two three"}},
		{`a\ b`, []string{"a b"}},
		{`"say \"hi\""`, []string{`say "hi"`}},
		{"tabs\tcount", []string{"tabs", "count"}},
		{"  padded  ", []string{"padded"}},
		{`trailing\`, []string{`trailing\`}},
	}

	for _, tt := range tests {
		got := splitCommandLine(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"  /help", true},
		{"help", false},
		{"", false},
		{"the /export command", false},
	}

	for _, tt := range tests {
		if got := IsCommand(tt.input); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help topic", "/help"},
		{"/EXPORT html", "/export"},
		{"not a command", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractCommandName(tt.input); got != tt.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateArgsRequired(t *testing.T) {
	cmd := &Command{
		Name: "/demo",
		Args: []ArgDef{
			{Name: "target", Required: true, Type: ArgTypeString},
		},
	}

	if err := ValidateArgs(cmd, nil); err == nil {
		t.Error("ValidateArgs with missing required arg should fail")
	} else if !strings.Contains(err.Error(), "target") {
		t.Errorf("error %q should name the missing argument", err.Error())
	}

	if err := ValidateArgs(cmd, []string{"anything"}); err != nil {
		t.Errorf("ValidateArgs with provided arg failed: %v", err)
	}
}

func TestValidateArgsEnum(t *testing.T) {
	cmd := &Command{
		Name: "/demo",
		Args: []ArgDef{
			{Name: "mode", Required: false, Type: ArgTypeEnum, Values: []string{"fast", "slow"}},
		},
	}

	if err := ValidateArgs(cmd, []string{"FAST"}); err != nil {
		t.Errorf("enum match should be case-insensitive, got %v", err)
	}
	err := ValidateArgs(cmd, []string{"medium"})
	if err == nil {
		t.Fatal("ValidateArgs with invalid enum value should fail")
	}
	if !strings.Contains(err.Error(), "fast") || !strings.Contains(err.Error(), "slow") {
		t.Errorf("error %q should list the accepted values", err.Error())
	}
}

func TestValidateArgsExtraAllowed(t *testing.T) {
	cmd := &Command{
		Name: "/demo",
		Args: []ArgDef{
			{Name: "query", Required: false, Type: ArgTypeString},
		},
	}
	if err := ValidateArgs(cmd, []string{"worn", "brake", "pads"}); err != nil {
		t.Errorf("trailing free-form words should validate, got %v", err)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func TestHandleHelp(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)

	msg := runCmd(t, HandleHelp(ctx, nil))
	if help, ok := msg.(ShowHelpMsg); !ok || help.Topic != "" {
		t.Errorf("HandleHelp() = %#v, want empty ShowHelpMsg", msg)
	}

	msg = runCmd(t, HandleHelp(ctx, []string{"/export"}))
	if help, ok := msg.(ShowHelpMsg); !ok || help.Topic != "export" {
		t.Errorf("HandleHelp(/export) = %#v, want topic %q", msg, "export")
	}
}

func TestHandleQuit(t *testing.T) {
	msg := runCmd(t, HandleQuit(NewContext(nil, nil, nil, nil), nil))
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("HandleQuit() = %#v, want tea.QuitMsg", msg)
	}
}

func TestHandleCloseWithoutSession(t *testing.T) {
	msg := runCmd(t, HandleClose(NewContext(nil, nil, nil, nil), nil))
	errMsg, ok := msg.(ErrorMsg)
	if !ok {
		t.Fatalf("HandleClose() = %#v, want ErrorMsg", msg)
	}
	if errMsg.Title != "No active session" {
		t.Errorf("ErrorMsg.Title = %q, want %q", errMsg.Title, "No active session")
	}
}

func TestHandleCloseWithSession(t *testing.T) {
	sess := session.NewState(session.DefaultConfig())
	if err := sess.Start(&model.ChatSession{ID: 7, CarDisplay: "2019 Honda Civic"}, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ctx := NewContext(nil, nil, nil, sess)

	msg := runCmd(t, HandleClose(ctx, nil))
	if _, ok := msg.(CloseSessionMsg); !ok {
		t.Errorf("HandleClose() = %#v, want CloseSessionMsg", msg)
	}
}

func TestHandleStatus(t *testing.T) {
	msg := runCmd(t, HandleStatus(NewContext(nil, nil, nil, nil), nil))
	if sys, ok := msg.(SystemMessageMsg); !ok || !strings.Contains(sys.Content, "No session state") {
		t.Errorf("HandleStatus() without session = %#v", msg)
	}

	sess := session.NewState(session.DefaultConfig())
	if err := sess.Start(&model.ChatSession{ID: 7, CarDisplay: "2019 Honda Civic"}, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	msg = runCmd(t, HandleStatus(NewContext(nil, nil, nil, sess), nil))
	sys, ok := msg.(SystemMessageMsg)
	if !ok {
		t.Fatalf("HandleStatus() = %#v, want SystemMessageMsg", msg)
	}
	for _, want := range []string{"Session status", "active", "#7", "2019 Honda Civic"} {
		if !strings.Contains(sys.Content, want) {
			t.Errorf("status %q missing %q", sys.Content, want)
		}
	}
}

func TestHandleClearAndCopy(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)

	if msg := runCmd(t, HandleClear(ctx, nil)); msg != (ClearTranscriptMsg{}) {
		t.Errorf("HandleClear() = %#v, want ClearTranscriptMsg", msg)
	}
	if msg := runCmd(t, HandleCopy(ctx, nil)); msg != (CopyToClipboardMsg{}) {
		t.Errorf("HandleCopy() = %#v, want CopyToClipboardMsg", msg)
	}
}

func TestHandleExportFormats(t *testing.T) {
	ctx := NewContext(nil, nil, nil, nil)

	tests := []struct {
		arg  string
		want string
	}{
		{"markdown", "markdown"},
		{"md", "markdown"},
		{"html", "html"},
		{"htm", "html"},
		{"JSON", "json"},
	}

	for _, tt := range tests {
		msg := runCmd(t, HandleExport(ctx, []string{tt.arg}))
		exp, ok := msg.(ExportTranscriptMsg)
		if !ok {
			t.Errorf("HandleExport(%q) = %#v, want ExportTranscriptMsg", tt.arg, msg)
			continue
		}
		if exp.Format != tt.want {
			t.Errorf("HandleExport(%q).Format = %q, want %q", tt.arg, exp.Format, tt.want)
		}
	}
}

func TestHandleExportDefaultsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Chat.ExportFormat = "html"
	ctx := NewContext(cfg, nil, nil, nil)

	msg := runCmd(t, HandleExport(ctx, nil))
	if exp, ok := msg.(ExportTranscriptMsg); !ok || exp.Format != "html" {
		t.Errorf("HandleExport() with config default = %#v, want html export", msg)
	}

	msg = runCmd(t, HandleExport(NewContext(nil, nil, nil, nil), nil))
	if exp, ok := msg.(ExportTranscriptMsg); !ok || exp.Format != "markdown" {
		t.Errorf("HandleExport() without config = %#v, want markdown export", msg)
	}
}

func TestHandleExportInvalidFormat(t *testing.T) {
	msg := runCmd(t, HandleExport(NewContext(nil, nil, nil, nil), []string{"pdf"}))
	errMsg, ok := msg.(ErrorMsg)
	if !ok {
		t.Fatalf("HandleExport(pdf) = %#v, want ErrorMsg", msg)
	}
	if !strings.Contains(errMsg.Tip, "markdown, html, json") {
		t.Errorf("ErrorMsg.Tip = %q, should list supported formats", errMsg.Tip)
	}
}

func TestHandleHistoryWithoutArchive(t *testing.T) {
	msg := runCmd(t, HandleHistory(NewContext(nil, nil, nil, nil), nil))
	if _, ok := msg.(ShowHistoryMsg); !ok {
		t.Errorf("HandleHistory() without archive = %#v, want ShowHistoryMsg", msg)
	}
}

func TestHandleHistoryWithArchive(t *testing.T) {
	archive, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, title := range []string{"Brakes grinding", "Engine stalls"} {
		st := &storage.StoredTranscript{
			SessionID:  int64(i + 1),
			Title:      title,
			CarDisplay: "2019 Honda Civic",
			Category:   "brakes_safety",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:  base.Add(time.Duration(i) * time.Minute),
			Messages: []storage.StoredMessage{
				{Role: string(model.RoleUser), Content: title, Timestamp: base},
			},
		}
		if err := archive.SaveTranscript(st); err != nil {
			t.Fatalf("SaveTranscript failed: %v", err)
		}
	}

	ctx := NewContext(nil, nil, archive, nil)

	msg := runCmd(t, HandleHistory(ctx, nil))
	list, ok := msg.(HistoryListMsg)
	if !ok {
		t.Fatalf("HandleHistory() = %#v, want HistoryListMsg", msg)
	}
	if len(list.Transcripts) != 2 {
		t.Errorf("got %d transcripts, want 2", len(list.Transcripts))
	}

	msg = runCmd(t, HandleHistory(ctx, []string{"engine"}))
	list, ok = msg.(HistoryListMsg)
	if !ok {
		t.Fatalf("HandleHistory(engine) = %#v, want HistoryListMsg", msg)
	}
	if len(list.Transcripts) != 1 || list.Transcripts[0].Title != "Engine stalls" {
		t.Errorf("query %q returned %d transcripts", list.Query, len(list.Transcripts))
	}
}
