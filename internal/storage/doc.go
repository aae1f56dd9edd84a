// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local archive: submission receipts,
// vehicle search history, and chat transcripts, kept in a single
// SQLite database under the user's config directory.
//
// The archive is a convenience record, not the source of truth. The
// backend owns complaints and sessions; the archive only remembers
// what this client saw so history works offline and across restarts.
//
// # Key Types
//
//   - Archive: database handle with CRUD for all three record kinds
//   - Receipt: local record of a submitted complaint
//   - Search: one past license-plate lookup
//   - StoredTranscript: persisted chat transcript keyed by session ID
//
// # Usage
//
//	archive, err := storage.Open(cfg.HistoryDBPath())
//	if err != nil {
//	    return err
//	}
//	defer archive.Close()
//
//	archive.SaveReceipt(storage.NewReceipt(&result.Complaint, result.Car.LicensePlate))
//	recent, _ := archive.ListReceipts(10)
//
// Receipts and searches are capped by Archive.MaxEntries; the oldest
// rows beyond the cap are pruned on insert. Transcripts are uncapped
// but overwritten per session on save.
package storage
