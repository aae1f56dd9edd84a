// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the active chat session and its local lifecycle.
//
// The backend owns the authoritative session record; this package owns
// the client's view of it: which session is open, the transcript built
// from streamed replies, and the guard that keeps sends serialized.
//
// # Key Types
//
//   - State: Owner of the current session, transcript, and send guard
//   - Phase: Local lifecycle (none, active, closed)
//   - AutoSaveMsg: Bubble Tea message requesting a transcript archive
//
// # Lifecycle
//
// A session moves none -> active -> closed. Closing is best-effort on
// the network side: local state always transitions, whether or not the
// backend acknowledged the close. A closed session keeps its transcript
// readable until Reset.
//
// # Usage
//
// Open a session after creating it on the backend:
//
//	st := session.NewState(session.DefaultConfig())
//	if err := st.Start(sess, complaint); err != nil {
//	    // a session is already active
//	}
//
// Serialize sends:
//
//	if err := st.BeginSend(); err != nil {
//	    return err // closed, or a reply is still streaming
//	}
//	defer st.EndSend()
package session
