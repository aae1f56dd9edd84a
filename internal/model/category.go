// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// category.go - Complaint category catalog and confidence tiers.
package model

import (
	"sort"
	"strconv"
)

// =============================================================================
// CATEGORY TYPE
// =============================================================================

// Category describes one complaint category as classified by the backend.
type Category struct {
	// Code is the machine-readable category code (e.g. "brakes_safety").
	Code string
	// Label is the human-readable display label (e.g. "Brakes & Safety").
	Label string
	// Icon is a single-glyph marker used in cards and lists.
	Icon string
}

// Categories is the catalog of known complaint categories, keyed by code.
// The set matches the backend's classifier output; unknown codes fall back
// to DefaultCategory.
var Categories = map[string]Category{
	"advanced_safety":     {Code: "advanced_safety", Label: "Advanced Safety", Icon: "🛡️"},
	"airbags_seatbelts":   {Code: "airbags_seatbelts", Label: "Airbags & Seatbelts", Icon: "💺"},
	"brakes_safety":       {Code: "brakes_safety", Label: "Brakes & Safety", Icon: "🛑"},
	"electrical_system":   {Code: "electrical_system", Label: "Electrical System", Icon: "⚡"},
	"engine":              {Code: "engine", Label: "Engine", Icon: "🔧"},
	"fuel_system":         {Code: "fuel_system", Label: "Fuel System", Icon: "⛽"},
	"power_train":         {Code: "power_train", Label: "Power Train", Icon: "⚙️"},
	"steering_suspension": {Code: "steering_suspension", Label: "Steering & Suspension", Icon: "🎯"},
	"structure_body":      {Code: "structure_body", Label: "Structure & Body", Icon: "🚗"},
	"visibility_lighting": {Code: "visibility_lighting", Label: "Visibility & Lighting", Icon: "💡"},
	"wheels_tires":        {Code: "wheels_tires", Label: "Wheels & Tires", Icon: "🛞"},
}

// DefaultCategory is used for category codes the client does not know.
var DefaultCategory = Category{Code: "", Label: "", Icon: "📝"}

// CategoryByCode returns the catalog entry for a code. Unknown codes get
// the default icon and the raw code as label, so new backend categories
// still render.
func CategoryByCode(code string) Category {
	if cat, ok := Categories[code]; ok {
		return cat
	}
	cat := DefaultCategory
	cat.Code = code
	cat.Label = code
	return cat
}

// CategoryCodes returns all known category codes in sorted order.
func CategoryCodes() []string {
	codes := make([]string, 0, len(Categories))
	for code := range Categories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// =============================================================================
// CONFIDENCE TIERS
// =============================================================================

// ConfidenceTier buckets a classifier confidence score for display.
type ConfidenceTier int

const (
	// TierHigh is confidence >= 0.8 (rendered green).
	TierHigh ConfidenceTier = iota
	// TierMedium is confidence >= 0.6 and < 0.8 (rendered amber).
	TierMedium
	// TierLow is confidence < 0.6 (rendered red).
	TierLow
)

// String returns the tier name.
func (t ConfidenceTier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "unknown"
	}
}

// TierFor buckets a confidence score. Boundaries are inclusive on the
// high side: 0.8 is high, 0.6 is medium.
func TierFor(confidence float64) ConfidenceTier {
	switch {
	case confidence >= 0.8:
		return TierHigh
	case confidence >= 0.6:
		return TierMedium
	default:
		return TierLow
	}
}

// FormatConfidence renders a confidence score as a whole percentage,
// e.g. 0.85 -> "85%".
func FormatConfidence(confidence float64) string {
	pct := int(confidence*100 + 0.5)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return strconv.Itoa(pct) + "%"
}
