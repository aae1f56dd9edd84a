// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command dispatch for the garagehub binary.
//
// Command: garagehub [command] [flags]
//
//	garagehub                 Launch the full-screen TUI
//	garagehub submit          Submit a complaint from flags
//	garagehub search <plate>  Look a vehicle up by license plate
//	garagehub stats           Fleet-wide complaint statistics
//	garagehub chat            Chat with the mechanic assistant
//	garagehub history         Browse the local archive
//	garagehub config          Read or write configuration
//	garagehub doctor          Diagnose the local setup
//	garagehub demo            TUI against an embedded demo backend
//	garagehub version         Print version information
//	garagehub help            Print usage
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies the requested top-level command.
type Command int

const (
	// CmdTUI launches the full-screen interface (the bare invocation).
	CmdTUI Command = iota
	// CmdSubmit files a complaint from command line flags.
	CmdSubmit
	// CmdSearch looks a vehicle up by plate.
	CmdSearch
	// CmdStats prints fleet statistics.
	CmdStats
	// CmdChat starts a chat session (TUI chat, or --plain REPL).
	CmdChat
	// CmdHistory browses the local archive.
	CmdHistory
	// CmdConfig reads or writes configuration.
	CmdConfig
	// CmdDoctor diagnoses the local setup.
	CmdDoctor
	// CmdDemo runs the TUI against an embedded backend.
	CmdDemo
	// CmdVersion prints version information.
	CmdVersion
	// CmdHelp prints usage.
	CmdHelp
)

// String returns the command's CLI name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdSubmit:
		return "submit"
	case CmdSearch:
		return "search"
	case CmdStats:
		return "stats"
	case CmdChat:
		return "chat"
	case CmdHistory:
		return "history"
	case CmdConfig:
		return "config"
	case CmdDoctor:
		return "doctor"
	case CmdDemo:
		return "demo"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// =============================================================================
// PARSED ARGUMENTS
// =============================================================================

// Args holds the result of parsing os.Args.
type Args struct {
	Command Command

	// Global flags
	API        string // --api <url>, overrides config base URL
	ConfigPath string // --config <path>, alternate config file
	Quiet      bool   // --quiet, minimal output
	JSON       bool   // --json, machine-readable envelope on stdout
	NoColor    bool   // --no-color, disable styling

	// Chat
	Plain       bool  // --plain, line-mode REPL instead of the TUI
	ComplaintID int64 // --complaint <id>, attach the session to a complaint

	// Search / history free text
	Query string

	// Nested subcommand for history and config
	Subcommand string

	// Remaining positional arguments after the nested subcommand
	Rest []string

	// Parser retains flag access for command-specific flags (submit's
	// intake fields, history's --format, demo's --port).
	Parser *ArgParser
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `garagehub %s - vehicle complaint intake and triage

USAGE:
  garagehub [command] [flags]

COMMANDS:
  (none)               Launch the full-screen TUI
  submit [flags]       Submit a complaint without the TUI
  search <plate>       Look a vehicle up by license plate
  stats                Fleet-wide complaint statistics
  chat                 Chat with the mechanic assistant
  history <action>     Local archive: list|show|search|export|delete|clear
  config <action>      Configuration: get|set|list|path
  doctor               Diagnose backend, config, and archive health
  demo                 Launch the TUI against an embedded demo backend
  version              Print version information
  help                 Print this help

GLOBAL FLAGS:
  --api <url>          Garage backend URL (default from config)
  --config <path>      Alternate configuration file
  --quiet, -q          Minimal output
  --json               JSON envelope on stdout (prose goes to stderr)
  --no-color           Disable colored output

SUBMIT FLAGS:
  --name <name>        Customer name
  --email <email>      Customer email (email or phone required)
  --phone <phone>      Customer phone
  --plate <plate>      License plate
  --make <make>        Vehicle make
  --model <model>      Vehicle model
  --year <year>        Model year
  --mileage <miles>    Odometer reading
  --text <complaint>   Complaint description (min 10 characters)
  --crash              The vehicle was in a crash
  --fire               A fire was involved

CHAT FLAGS:
  --plain              Line-mode REPL (no full-screen TUI)
  --complaint <id>     Attach the session to a submitted complaint

EXAMPLES:
  garagehub
  garagehub submit --email jane@example.com --plate ABC123 \
      --text "Grinding noise from the front left wheel when braking"
  garagehub search ABC123
  garagehub stats --json
  garagehub chat --plain
  garagehub history list
  garagehub history export 7 --format html
  garagehub config set api.base_url http://10.0.0.5:8000
`

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion writes version information to stdout.
func PrintVersion(jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
		}).Print()
	}
	fmt.Printf("garagehub %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse turns os.Args[1:] into an Args. Unknown commands return an
// error naming the offender; flag syntax errors surface from the
// command handlers that read them.
func Parse(argv []string) (*Args, error) {
	args := &Args{Command: CmdTUI}

	// Split the top-level command word off before flag parsing.
	var commandWord string
	rest := argv
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		commandWord = argv[0]
		rest = argv[1:]
	}

	parser := NewArgParser(rest)
	args.Parser = parser

	// Global flags apply to every command.
	args.API = parser.FlagOrDefault("api", "")
	args.ConfigPath = parser.FlagOrDefault("config", "")
	args.Quiet = parser.BoolFlag("quiet") || parser.BoolFlag("q")
	args.JSON = parser.BoolFlag("json")
	args.NoColor = parser.BoolFlag("no-color")

	if args.NoColor {
		os.Setenv("NO_COLOR", "1")
	}

	switch commandWord {
	case "":
		if parser.BoolFlag("version") {
			args.Command = CmdVersion
			return args, nil
		}
		if parser.BoolFlag("help") || parser.BoolFlag("h") {
			args.Command = CmdHelp
			return args, nil
		}
		args.Command = CmdTUI
	case "submit":
		args.Command = CmdSubmit
	case "search":
		args.Command = CmdSearch
		args.Query = parser.JoinPositional()
	case "stats":
		args.Command = CmdStats
	case "chat":
		args.Command = CmdChat
		args.Plain = parser.BoolFlag("plain")
		id, _, err := parser.FlagInt64("complaint")
		if err != nil {
			return nil, err
		}
		args.ComplaintID = id
	case "history":
		args.Command = CmdHistory
		args.Subcommand = parser.Subcommand()
		args.Rest = parser.PositionalFrom(1)
		args.Query = strings.Join(args.Rest, " ")
	case "config":
		args.Command = CmdConfig
		args.Subcommand = parser.Subcommand()
		args.Rest = parser.PositionalFrom(1)
	case "doctor":
		args.Command = CmdDoctor
	case "demo":
		args.Command = CmdDemo
	case "version":
		args.Command = CmdVersion
	case "help", "--help", "-h":
		args.Command = CmdHelp
	default:
		return nil, fmt.Errorf("unknown command %q (run garagehub help)", commandWord)
	}

	return args, nil
}

// ParseID parses a positional numeric ID, for history show/export/delete.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return id, nil
}
