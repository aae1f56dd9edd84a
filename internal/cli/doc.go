// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the garagehub command line surface.
//
// Parsing is hand rolled: a Command enum, an Args struct, and a small
// ArgParser that understands --flag value, --flag=value, and boolean
// flags. Every subcommand has a Handle*Command entry point; main
// dispatches on the parsed Command and exits with the handler's error.
//
// Output discipline: human text goes to stdout styled for TTYs, --json
// wraps command data in the JSONResponse envelope on stdout with any
// prose diverted to stderr, and NO_COLOR or piped stdout disables
// styling entirely.
package cli
