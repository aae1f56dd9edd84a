// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Flag and argument parsing shared by all subcommands.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// boolFlagNames are flags that never consume a value. Anything else
// written as --flag eats the next token as its value.
var boolFlagNames = map[string]bool{
	"quiet":    true,
	"json":     true,
	"no-color": true,
	"plain":    true,
	"open":     true,
	"confirm":  true,
	"no-seed":  true,
	"version":  true,
	"help":     true,
	"q":        true,
	"h":        true,
	"v":        true,
}

// ArgParser tokenizes a subcommand's argument list into flags and
// positional arguments.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
	raw        []string
}

// NewArgParser parses args (everything after the subcommand name).
// Supported forms: --flag value, --flag=value, -f value, and bare
// boolean flags. --flag=true / --flag=false set boolean flags
// explicitly.
func NewArgParser(args []string) *ArgParser {
	p := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
		raw:        args,
	}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")

			if eq := strings.Index(name, "="); eq >= 0 {
				key, value := name[:eq], name[eq+1:]
				if boolFlagNames[key] {
					p.boolFlags[key] = value != "false" && value != "0"
				} else {
					p.flags[key] = value
				}
				i++
				continue
			}

			if boolFlagNames[name] {
				p.boolFlags[name] = true
				i++
				continue
			}

			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				p.flags[name] = args[i+1]
				i += 2
				continue
			}

			// Value-less non-boolean flag; record presence.
			p.flags[name] = ""
			i++

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			name := strings.TrimPrefix(arg, "-")
			if boolFlagNames[name] {
				p.boolFlags[name] = true
				i++
				continue
			}
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				p.flags[name] = args[i+1]
				i += 2
				continue
			}
			p.flags[name] = ""
			i++

		default:
			p.positional = append(p.positional, arg)
			i++
		}
	}

	return p
}

// Subcommand returns the first positional argument. Commands with
// nested subcommands (history list, config get, ...) read it here and
// take their remaining arguments from PositionalFrom(1).
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of a string flag and whether it was present.
func (p *ArgParser) Flag(name string) (string, bool) {
	v, ok := p.flags[name]
	return v, ok
}

// FlagOrDefault returns the flag's value, or def when absent.
func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v, ok := p.flags[name]; ok && v != "" {
		return v
	}
	return def
}

// FlagInt parses an integer flag. Absent flags return (0, false, nil);
// present but malformed values return an error naming the flag.
func (p *ArgParser) FlagInt(name string) (int, bool, error) {
	v, ok := p.flags[name]
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, fmt.Errorf("--%s: %q is not a number", name, v)
	}
	return n, true, nil
}

// FlagIntOrDefault parses an integer flag with a fallback.
func (p *ArgParser) FlagIntOrDefault(name string, def int) int {
	n, ok, err := p.FlagInt(name)
	if !ok || err != nil {
		return def
	}
	return n
}

// FlagInt64 parses an int64 flag, for complaint and session IDs.
func (p *ArgParser) FlagInt64(name string) (int64, bool, error) {
	v, ok := p.flags[name]
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("--%s: %q is not a number", name, v)
	}
	return n, true, nil
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[name]
}

// HasFlag reports whether a flag of either kind appeared at all.
func (p *ArgParser) HasFlag(name string) bool {
	if _, ok := p.flags[name]; ok {
		return true
	}
	return p.boolFlags[name]
}

// Positional returns the positional argument at index, or "".
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom returns the positional arguments starting at index.
func (p *ArgParser) PositionalFrom(index int) []string {
	if index < 0 || index >= len(p.positional) {
		return nil
	}
	return p.positional[index:]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// JoinPositional joins all positional arguments with spaces; free-text
// queries may arrive unquoted as multiple words.
func (p *ArgParser) JoinPositional() string {
	return strings.Join(p.positional, " ")
}

// Raw returns the unparsed argument list.
func (p *ArgParser) Raw() []string {
	return p.raw
}
