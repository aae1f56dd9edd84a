// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides chat transcript export functionality for garagehub.
//
// This package supports exporting transcripts to various formats with
// styling, metadata, and optional opening in external applications.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - Markdown: Human-readable, assistant markdown passes through
//   - HTML: Styled standalone page, assistant markdown rendered
//   - JSON: Machine-readable with full metadata
//
// # Usage
//
// Export an archived transcript:
//
//	path, err := export.ExportMarkdown(stored, opts)
//
// Export a live chat before it is archived:
//
//	path, err := export.ExportTranscript(transcript, cfg.Chat.ExportFormat, opts)
package export
