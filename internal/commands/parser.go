// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the outcome of parsing an input line.
type ParseResult struct {
	// IsCommand indicates the input starts with a slash
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// CommandName is the name as typed (including slash)
	CommandName string

	// Args are the parsed arguments
	Args []string

	// RawInput is the original input
	RawInput string

	// RawArgs is everything after the command name, unsplit
	RawArgs string

	// Error describes a parse failure (unknown command, bad args)
	Error error
}

// =============================================================================
// PARSER
// =============================================================================

// Parser handles command parsing.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser backed by the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse analyzes an input line and resolves it against the registry.
func (p *Parser) Parse(input string) *ParseResult {
	result := &ParseResult{
		RawInput: input,
	}

	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return result
	}
	result.IsCommand = true

	parts := splitCommandLine(trimmed)
	if len(parts) == 0 {
		result.Error = fmt.Errorf("empty command")
		return result
	}

	result.CommandName = strings.ToLower(parts[0])
	result.Args = parts[1:]

	if idx := strings.Index(trimmed, " "); idx >= 0 {
		result.RawArgs = strings.TrimSpace(trimmed[idx+1:])
	}

	cmd := p.registry.Get(result.CommandName)
	if cmd == nil {
		result.Error = fmt.Errorf("unknown command: %s", result.CommandName)
		return result
	}
	result.Command = cmd

	if verr := ValidateArgs(cmd, result.Args); verr != nil {
		result.Error = verr
	}
	return result
}

// IsCommand reports whether the input line is a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName returns the command name from an input line,
// or an empty string if it is not a command.
func ExtractCommandName(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return ""
	}
	parts := splitCommandLine(trimmed)
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[0])
}

// ParseArgs splits an argument string into tokens, honoring quotes.
func ParseArgs(input string) []string {
	return splitCommandLine(input)
}

// splitCommandLine tokenizes a command line. Double and single quotes
// group words, and backslash escapes the next character inside double
// quotes or bare words.
func splitCommandLine(s string) []string {
	var tokens []string
	var current strings.Builder
	inDouble := false
	inSingle := false
	escaped := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && !inSingle:
			escaped = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case (r == ' ' || r == '\t') && !inDouble && !inSingle:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	flush()
	return tokens
}

// =============================================================================
// ARGUMENT VALIDATION
// =============================================================================

// ValidationError describes an argument that failed validation.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected []string
}

func (e *ValidationError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("%s: %s (got %q, expected one of: %s)",
			e.Command, e.Message, e.Got, strings.Join(e.Expected, ", "))
	}
	if e.Got != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Command, e.Message, e.Got)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// ValidateArgs checks provided arguments against a command's definitions.
// Extra arguments beyond the defined ones are allowed so that free-form
// trailing text (like a history query) can span multiple words.
func ValidateArgs(cmd *Command, args []string) *ValidationError {
	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{
					Command: cmd.Name,
					Arg:     def.Name,
					Message: fmt.Sprintf("missing required argument %q", def.Name),
				}
			}
			continue
		}
		if def.Type == ArgTypeEnum && len(def.Values) > 0 {
			got := strings.ToLower(args[i])
			valid := false
			for _, v := range def.Values {
				if got == v {
					valid = true
					break
				}
			}
			if !valid {
				return &ValidationError{
					Command:  cmd.Name,
					Arg:      def.Name,
					Message:  fmt.Sprintf("invalid value for %q", def.Name),
					Got:      args[i],
					Expected: def.Values,
				}
			}
		}
	}
	return nil
}
