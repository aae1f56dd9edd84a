// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// =============================================================================
// CONVERSION UTILITIES
// =============================================================================

// ExportTranscript exports a live transcript directly, converting it to
// the stored form first. This lets an active chat be exported before it
// has been archived.
func ExportTranscript(tr *model.Transcript, format string, opts *Options) (string, error) {
	if tr == nil {
		return "", fmt.Errorf("transcript is nil")
	}
	stored := storage.NewStoredTranscript(tr)

	switch format {
	case "markdown", "md":
		return ExportMarkdown(stored, opts)
	case "html", "htm":
		return ExportHTML(stored, opts)
	case "json":
		return ExportJSON(stored, opts)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}
