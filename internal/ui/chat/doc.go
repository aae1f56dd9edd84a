// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen of the garagehub TUI: a
// conversation with the AI mechanic scoped to one complaint.
//
// The screen owns the optimistic send flow. A submitted message is
// appended to the transcript immediately (pending), followed by an
// empty assistant placeholder (streaming). The actual network exchange
// runs outside this package: the model emits a StreamRequestMsg, the
// application runs the stream on a goroutine, and chunks arrive back
// as StreamTokenMsg values. On success the exchange is committed; on
// failure the placeholder is removed, the user message is marked
// rolled back, and a system-role error line is appended.
//
// Token redraws are coalesced through a StreamingBuffer flushed on a
// ~30fps tick so a fast stream cannot saturate the render loop.
//
// Slash commands (/help, /close, /export, ...) are parsed against
// internal/commands and their resulting messages are handled here.
package chat
