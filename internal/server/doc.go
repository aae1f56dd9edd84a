// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a mock garage backend for local development
// and end-to-end testing.
//
// The server reproduces the production API's wire contract: the same
// endpoints, envelopes, validation errors, and status codes, backed by
// an in-memory store and a keyword classifier instead of a database and
// an ML model. Chat replies stream as chunked plain text with chunks
// cut on byte boundaries, so client-side UTF-8 handling gets exercised
// the same way real proxied traffic exercises it.
//
// # Endpoints
//
//   - POST /api/v1/complaints/quick-submit/        - Submit a complaint
//   - GET  /api/v1/complaints/statistics/          - Aggregate statistics
//   - GET  /api/v1/complaints/categories/          - Category options
//   - GET  /api/v1/cars/by_license_plate/          - Plate lookup
//   - GET  /api/v1/cars/{id}/complaint_history/    - Complaint history
//   - POST /api/v1/chat/sessions/                  - Start a chat session
//   - GET  /api/v1/chat/sessions/{id}/             - Fetch a session
//   - POST /api/v1/chat/sessions/{id}/send_message/ - Send, reply streams
//   - POST /api/v1/chat/sessions/{id}/close/       - Close a session
//   - POST /api/v1/chat/sessions/{id}/reopen/      - Reopen a session
//   - GET  /health                                 - Health check (mock only)
//   - GET  /stats                                  - Usage counters (mock only)
//
// # Key Types
//
//   - Server: HTTP server with router, middleware, and stream pacing
//   - Store: in-memory customers, cars, complaints, and chat sessions
//   - ServerStats: request and streaming counters
//
// # Usage
//
//	srv := server.NewServer(8000).WithStreamDelay(5 * time.Millisecond)
//	srv.Store().Seed()
//	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
//		log.Fatal(err)
//	}
//
// Tests mount srv.Handler() on an httptest.Server instead of binding a
// real port.
package server
