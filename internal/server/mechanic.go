// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// mechanic.go - Keyword classifier and canned mechanic replies.
package server

import (
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// =============================================================================
// KEYWORD CLASSIFIER
// =============================================================================

// categoryKeywords drives the mock classifier. Scoring is substring
// matching over the lowercased complaint, one point per keyword hit.
var categoryKeywords = map[string][]string{
	"advanced_safety":     {"lane assist", "cruise control", "collision warning", "blind spot", "sensor", "backup camera"},
	"airbags_seatbelts":   {"airbag", "air bag", "seatbelt", "seat belt", "restraint"},
	"brakes_safety":       {"brake", "abs", "grind", "squeal", "stopping distance", "pedal"},
	"electrical_system":   {"battery", "electrical", "wiring", "fuse", "alternator", "won't start", "dead"},
	"engine":              {"engine", "stall", "misfire", "overheat", "oil", "knock", "check engine"},
	"fuel_system":         {"fuel", "gas smell", "gasoline", "injector", "tank", "leak"},
	"power_train":         {"transmission", "gear", "clutch", "shift", "driveshaft", "axle"},
	"steering_suspension": {"steering", "suspension", "shock", "strut", "pulls to", "wander", "alignment"},
	"structure_body":      {"rust", "door", "frame", "body panel", "paint", "corrosion", "dent"},
	"visibility_lighting": {"headlight", "taillight", "wiper", "windshield", "defrost", "fog light"},
	"wheels_tires":        {"tire", "wheel", "rim", "flat", "tread", "vibration"},
}

// classify scores the complaint text against the keyword table and
// returns the winning category code with a confidence score. The crash
// and fire flags weight their natural categories the way the real
// classifier's feature columns do. Deterministic: ties break on code
// order so repeated submissions classify identically.
func classify(text string, crash, fire bool) (string, float64) {
	lowered := strings.ToLower(text)

	scores := make(map[string]int, len(categoryKeywords))
	for code, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				scores[code]++
			}
		}
	}
	if crash {
		scores["structure_body"] += 2
	}
	if fire {
		scores["fuel_system"] += 2
	}

	best, bestScore := "engine", 0
	for _, code := range model.CategoryCodes() {
		if scores[code] > bestScore {
			best, bestScore = code, scores[code]
		}
	}

	confidence := 0.5 + 0.2*float64(bestScore)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return best, confidence
}

// analysisFor builds the short analysis blurb attached to a classified
// complaint.
func analysisFor(category model.Category, confidence float64, crash, fire bool) string {
	var b strings.Builder
	b.WriteString("The description points at the ")
	b.WriteString(category.Label)
	b.WriteString(" system (confidence ")
	b.WriteString(model.FormatConfidence(confidence))
	b.WriteString(").")
	if crash {
		b.WriteString(" A crash was reported; a structural inspection is required before the vehicle is driven.")
	}
	if fire {
		b.WriteString(" A fire was reported; do not operate the vehicle until it has been inspected.")
	}
	return b.String()
}

// =============================================================================
// CANNED MECHANIC REPLIES
// =============================================================================

// greetingFor is the assistant greeting seeded into new sessions.
func greetingFor(session *model.ChatSession) string {
	name := session.CarDisplay
	if name == "" {
		name = "vehicle"
	}
	return "Hello! I'm your AI mechanic assistant. I'm here to help with your " +
		name + ". How can I assist you today?"
}

// categoryReplies maps category codes to mechanic replies. Replies use
// the markdown-lite dialect the client renders (bold, ### headings,
// - lists) and include multi-byte glyphs so chunked streaming crosses
// rune boundaries the way real traffic does.
var categoryReplies = map[string]string{
	"brakes_safety": "**Grinding or squealing brakes** usually mean the pads are worn down to the wear indicators. 🛑\n" +
		"### What I recommend\n" +
		"- Have the pad thickness measured at both axles\n" +
		"- Check the rotors for scoring or heat spots\n" +
		"- Avoid hard braking until the inspection\n" +
		"Braking issues are safety issues, so please don't put this off. Would you like help finding a good time to bring the car in?",
	"engine": "An engine that **stalls or misfires** under load often comes down to ignition or fuel delivery. 🔧\n" +
		"### Likely suspects\n" +
		"- Worn spark plugs or coil packs\n" +
		"- A dirty throttle body or clogged injectors\n" +
		"- A failing crankshaft position sensor\n" +
		"If the check engine light is on, the stored codes will narrow this down quickly. Has the light been steady or flashing?",
	"electrical_system": "**Intermittent electrical faults** are usually a charging-system or ground problem rather than the battery alone. ⚡\n" +
		"### Worth checking\n" +
		"- Battery terminals for corrosion and tightness\n" +
		"- Alternator output under load\n" +
		"- The main chassis ground strap\n" +
		"Does the problem show up more when the engine is cold, or after driving a while?",
	"fuel_system": "A **fuel smell** is never something to ignore. ⛽\n" +
		"### Please do this first\n" +
		"- Park the vehicle outside, away from ignition sources\n" +
		"- Don't top off the tank until it's inspected\n" +
		"- Look underneath for wet spots after parking overnight\n" +
		"Most often it's the filler neck or an EVAP line, both fixable. Can you tell me when you notice the smell most?",
	"wheels_tires": "**Vibration or pulling** that changes with speed usually traces to the wheels or tires. 🛞\n" +
		"### Quick checks\n" +
		"- Tire pressure on all four corners\n" +
		"- Uneven tread wear across each tire\n" +
		"- A bent rim from a pothole strike\n" +
		"At what speed does the vibration show up most clearly?",
	"steering_suspension": "**Wandering steering or clunks over bumps** point at the suspension or steering linkage. 🎯\n" +
		"### I'd inspect\n" +
		"- Tie rod ends and ball joints for play\n" +
		"- Strut mounts and bushings\n" +
		"- The alignment after any parts are replaced\n" +
		"Does it pull to one side on a flat, straight road?",
	"power_train": "**Harsh or slipping shifts** deserve attention before they turn into a rebuild. ⚙️\n" +
		"### First steps\n" +
		"- Check the transmission fluid level and color\n" +
		"- Note which gears misbehave and whether it's worse cold\n" +
		"- Scan for transmission fault codes\n" +
		"Dark or burnt-smelling fluid is the classic early warning. When was the fluid last serviced?",
}

// defaultReply is used when no category reply matches.
const defaultReply = "Thanks for the details. 📝\n" +
	"### To narrow this down\n" +
	"- When did the symptom first appear?\n" +
	"- Does it happen cold, warm, or all the time?\n" +
	"- Any warning lights on the dash?\n" +
	"With those answers I can point you at the most likely cause and what it should cost to fix."

// smallTalkReply answers greetings and thanks without the diagnostic
// boilerplate.
const smallTalkReply = "Happy to help! Tell me what the car is doing, and be as specific as you can about " +
	"when it happens. **The more detail, the better the diagnosis.**"

var smallTalkWords = []string{"hello", "hi there", "thanks", "thank you", "hey"}

// mechanicReply picks the canned reply for a user message. The message
// text is classified first; when nothing matches, the session's
// complaint category decides, so follow-up questions stay on topic.
func mechanicReply(session model.ChatSession, userMessage string) string {
	lowered := strings.ToLower(strings.TrimSpace(userMessage))

	for _, w := range smallTalkWords {
		if strings.HasPrefix(lowered, w) {
			return smallTalkReply
		}
	}

	code, confidence := classify(userMessage, false, false)
	if confidence <= 0.5 {
		// No keyword hits; fall back to the complaint's category.
		code = session.Complaint.PredictedCategory
	}
	if reply, ok := categoryReplies[code]; ok {
		return reply
	}
	return defaultReply
}
