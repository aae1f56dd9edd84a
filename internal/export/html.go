// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/markdown"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to HTML format with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML format.
func (e *HTMLExporter) Export(tr *storage.StoredTranscript) ([]byte, error) {
	if err := validateTranscript(tr); err != nil {
		return nil, err
	}

	var sb strings.Builder

	// HTML header
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(tr.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"garagehub-tui\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", tr.CreatedAt.Format(time.RFC3339)))

	// Embedded CSS
	sb.WriteString(e.getCSS())

	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))

	// Container
	sb.WriteString("    <div class=\"container\">\n")

	// Header with metadata
	if e.options.IncludeMetadata {
		sb.WriteString(e.renderHeader(tr))
	}

	// Conversation messages
	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range tr.Messages {
		sb.WriteString(e.renderMessage(&msg))
	}
	sb.WriteString("        </main>\n")

	// Footer
	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>garagehub</strong> on %s</p>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")

	sb.WriteString("    </div>\n")

	// Theme toggle script
	sb.WriteString(e.getScript())

	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

// renderHeader renders the header section with metadata.
func (e *HTMLExporter) renderHeader(tr *storage.StoredTranscript) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(tr.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if tr.CarDisplay != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Vehicle:</strong> %s</span>\n", html.EscapeString(tr.CarDisplay)))
	}
	if tr.Category != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Category:</strong> %s</span>\n", html.EscapeString(categoryLabel(tr.Category))))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(tr.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(tr.Messages)))
	sb.WriteString("                <button class=\"theme-toggle\" onclick=\"toggleTheme()\" title=\"Toggle theme\">[Theme]</button>\n")
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// renderMessage renders a single message.
func (e *HTMLExporter) renderMessage(msg *storage.StoredMessage) string {
	var sb strings.Builder

	roleClass := strings.ToLower(msg.Role)
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s-message\">\n", roleClass))

	// Message header
	sb.WriteString("                <div class=\"message-header\">\n")
	sb.WriteString(fmt.Sprintf("                    <span class=\"role-label\">%s</span>\n", roleLabel(msg.Role)))
	if e.options.IncludeTimestamps {
		sb.WriteString(fmt.Sprintf("                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp)))
	}
	sb.WriteString("                </div>\n")

	// Message content. Assistant replies arrive in the markdown-lite
	// dialect and render through the same converter the web client
	// uses; other roles are plain text.
	sb.WriteString("                <div class=\"message-content\">\n")
	if msg.Role == "assistant" {
		sb.WriteString(markdown.ToHTML(msg.Content))
	} else {
		sb.WriteString(plainToHTML(msg.Content))
	}
	sb.WriteString("\n                </div>\n")

	sb.WriteString("            </div>\n")

	return sb.String()
}

// plainToHTML escapes plain text and preserves its line breaks.
func plainToHTML(content string) string {
	escaped := html.EscapeString(strings.TrimSpace(content))
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// getCSS returns the embedded CSS for the HTML export.
func (e *HTMLExporter) getCSS() string {
	return `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        /* Dark theme (default) */
        .dark-theme {
            --bg-primary: #16161e;
            --bg-secondary: #1f2430;
            --bg-tertiary: #2c3344;
            --text-primary: #d5dcf0;
            --text-secondary: #a4adc4;
            --text-muted: #5c6684;
            --border-color: #2c3344;
            --user-bg: #1b2028;
            --mechanic-bg: #1f2430;
            --accent-user: #6fa8ff;
            --accent-mechanic: #8fd07a;
            --accent-system: #c9a0f5;
        }

        /* Light theme */
        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f6f7f9;
            --bg-tertiary: #e3e6ea;
            --text-primary: #22262c;
            --text-secondary: #555e68;
            --text-muted: #6d757e;
            --border-color: #e3e6ea;
            --user-bg: #f4f7fb;
            --mechanic-bg: #ffffff;
            --accent-user: #105fc2;
            --accent-mechanic: #1f7a33;
            --accent-system: #6940b5;
        }

        body {
            font-family: var(--font-sans);
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
            transition: background 0.3s ease, color 0.3s ease;
        }

        .container {
            max-width: 860px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        .header {
            padding: 32px;
            background: var(--bg-tertiary);
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 {
            font-size: 26px;
            font-weight: 700;
            margin-bottom: 16px;
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-secondary);
            align-items: center;
        }

        .theme-toggle {
            margin-left: auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 6px 12px;
            cursor: pointer;
            font-size: 14px;
        }

        .conversation {
            padding: 24px 32px;
        }

        .message {
            margin-bottom: 20px;
            padding: 18px;
            border-radius: 8px;
            border-left: 4px solid transparent;
        }

        .user-message {
            background: var(--user-bg);
            border-left-color: var(--accent-user);
        }

        .assistant-message {
            background: var(--mechanic-bg);
            border-left-color: var(--accent-mechanic);
        }

        .system-message {
            background: var(--bg-tertiary);
            border-left-color: var(--accent-system);
        }

        .message-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 10px;
            font-size: 14px;
        }

        .role-label {
            font-weight: 600;
        }

        .timestamp {
            color: var(--text-muted);
            font-size: 13px;
            font-family: var(--font-mono);
        }

        .message-content {
            line-height: 1.7;
        }

        /* The markdown-lite converter emits bare h3 and li tags */
        .message-content h3 {
            margin: 12px 0 4px;
            font-size: 17px;
        }

        .message-content li {
            margin-left: 24px;
        }

        .footer {
            padding: 20px 32px;
            text-align: center;
            font-size: 14px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        @media print {
            body {
                padding: 0;
            }

            .container {
                box-shadow: none;
                border-radius: 0;
            }

            .theme-toggle {
                display: none;
            }

            .message {
                page-break-inside: avoid;
            }
        }

        @media (max-width: 700px) {
            body {
                padding: 10px;
            }

            .header, .conversation, .footer {
                padding: 16px;
            }

            .message {
                padding: 14px;
            }
        }
    </style>
`
}

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

// getScript returns the embedded JavaScript for theme toggling.
func (e *HTMLExporter) getScript() string {
	return `    <script>
        function toggleTheme() {
            const body = document.body;
            if (body.classList.contains('dark-theme')) {
                body.classList.remove('dark-theme');
                body.classList.add('light-theme');
                localStorage.setItem('theme', 'light');
            } else {
                body.classList.remove('light-theme');
                body.classList.add('dark-theme');
                localStorage.setItem('theme', 'dark');
            }
        }

        document.addEventListener('DOMContentLoaded', function() {
            const savedTheme = localStorage.getItem('theme');
            if (savedTheme) {
                document.body.classList.remove('dark-theme', 'light-theme');
                document.body.classList.add(savedTheme + '-theme');
            }
        });
    </script>
`
}
