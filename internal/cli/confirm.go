// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive archive operations.
//
// One pattern everywhere:
//  1. --confirm skips the prompt
//  2. --json requires --confirm (no interactive prompts in JSON mode)
//  3. non-TTY stdin requires --confirm (nothing to prompt)
//  4. otherwise an interactive y/N prompt decides
package cli

import (
	"fmt"
	"strings"
)

// ConfirmationOptions carries the flags that influence confirmation.
type ConfirmationOptions struct {
	ConfirmFlag bool
	JSONMode    bool
}

// RequireConfirmation gates a destructive action. Returns true when
// the action may proceed; an error when confirmation is required but
// cannot be obtained.
func RequireConfirmation(action string, opts ConfirmationOptions) (bool, error) {
	if opts.ConfirmFlag {
		return true, nil
	}
	if opts.JSONMode {
		return false, fmt.Errorf("refusing to %s without --confirm in JSON mode", action)
	}
	if !CanPrompt() {
		return false, fmt.Errorf("refusing to %s: stdin is not a terminal, pass --confirm", action)
	}

	answer := promptInput(WarnStyle.Render("About to "+action+".") + " Continue? [y/N] ")
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
