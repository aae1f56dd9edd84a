// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for complaints, vehicles,
// chat sessions, and messages.
//
// This package defines the core domain types used throughout the
// application. Complaint, Car, Customer, ChatSession, and ChatMessage
// mirror the backend's wire shapes and are read-only caches of
// server-authoritative data. Message and Transcript are client-side
// types that track the delivery state of an in-flight chat exchange.
//
// # Key Types
//
//   - Complaint: a classified vehicle complaint with category and confidence
//   - Car: a registered vehicle with its owning customer
//   - ChatSession: a server-side chat thread anchored to one complaint
//   - Transcript: client-side message list with optimistic delivery states
//   - Message: single message with role, content, and delivery state
//   - Category: complaint category metadata (code, label, icon)
//
// # Usage
//
// Track an optimistic send:
//
//	tr := model.NewTranscript(session.ID)
//	user := tr.AddUserMessage("The brakes squeal at low speed")
//	placeholder := tr.AddAssistantPlaceholder()
//	// ... stream chunks into placeholder ...
//	tr.FinalizeLast()
//	tr.Commit(user.ID)
//
// Look up category metadata:
//
//	cat := model.CategoryByCode("brakes_safety")
//	fmt.Printf("%s %s\n", cat.Icon, cat.Label)
package model
