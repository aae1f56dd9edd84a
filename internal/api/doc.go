// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the garage complaint backend.
//
// This package implements the client for the vehicle-complaint intake
// API: quick submission with ML classification, vehicle lookup by
// license plate, fleet statistics, and the streaming mechanic chat.
//
// All non-streaming operations share one error-normalization boundary:
// a non-2xx response becomes a *ClientError whose Message is the body's
// message field when present, or a generic fallback otherwise; network
// and decode failures carry their cause. Callers branch on the returned
// error, never on raw response details.
//
// # Key Types
//
//   - Client: HTTP client for the garage API
//   - ClientError: typed error with user-facing message
//   - StreamReader: chunked-text reader with stateful UTF-8 decoding
//   - QuickSubmitRequest: one-shot complaint intake payload
//
// # Usage
//
// Submit a complaint and read the classification:
//
//	client := api.NewClient()
//	result, err := client.SubmitComplaint(ctx, api.QuickSubmitRequest{
//	    CustomerName:  "Dana Smith",
//	    CustomerEmail: "dana@example.com",
//	    LicensePlate:  "ABC-123",
//	    ComplaintText: "Grinding noise when braking downhill",
//	})
//
// Stream a chat reply chunk by chunk:
//
//	msg, err := client.SendMessage(ctx, session.ID, "What should I check?",
//	    func(chunk string) {
//	        fmt.Print(chunk)
//	    })
package api
