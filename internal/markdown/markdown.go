// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts the constrained Markdown subset used by the
// mechanic assistant into HTML fragments.
//
// The dialect is deliberately small: bold spans, level-3 headings, flat
// list items, and line breaks. Rules run in a fixed order because the
// line-anchored patterns must see the input's original newlines, and
// the break substitution must run last.
//
// Input is substituted as-is, without HTML escaping. Backend responses
// are trusted content here; changing that is a rendering-behavior
// change, not a cleanup.
package markdown

import (
	"regexp"
	"strings"
)

var (
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingRe  = regexp.MustCompile(`(?m)^### (.*)$`)
	listItemRe = regexp.MustCompile(`(?m)^- (.*)$`)
)

// ToHTML renders markdown-lite text as an HTML fragment.
//
// Rules, applied in order:
//  1. **text**            -> <strong>text</strong>
//  2. lines "### rest"    -> <h3>rest</h3>
//  3. lines "- rest"      -> <li>rest</li>  (no wrapping <ul>)
//  4. remaining newlines  -> <br>
func ToHTML(text string) string {
	out := boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	out = headingRe.ReplaceAllString(out, "<h3>$1</h3>")
	out = listItemRe.ReplaceAllString(out, "<li>$1</li>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}
