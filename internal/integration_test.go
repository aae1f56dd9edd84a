// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal holds end-to-end tests for the complete garagehub
// workflow: the API client against the embedded mock backend, with the
// local archive in the loop. Individual packages cover their own edges;
// these tests cover the seams.
package internal

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/server"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// newBackend mounts a quiet mock backend on httptest and returns an API
// client pointed at it.
func newBackend(t *testing.T) *api.Client {
	t.Helper()

	s := server.NewServer(0).
		WithStreamDelay(0).
		WithLogger(log.New(io.Discard, "", 0))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return api.NewClientWithConfig(&api.ClientConfig{BaseURL: ts.URL, Timeout: 10 * time.Second})
}

func newArchive(t *testing.T) *storage.Archive {
	t.Helper()
	archive, err := storage.Open(filepath.Join(t.TempDir(), "garagehub.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return archive
}

// =============================================================================
// FULL WORKFLOW
// =============================================================================

// TestWorkflow_SubmitSearchChatClose drives the whole customer journey:
// file a complaint, look the vehicle back up, open a chat about the
// complaint, exchange a streamed message, and close the session.
func TestWorkflow_SubmitSearchChatClose(t *testing.T) {
	client := newBackend(t)
	archive := newArchive(t)
	ctx := context.Background()

	// Submit a complaint.
	result, err := client.SubmitComplaint(ctx, api.QuickSubmitRequest{
		CustomerName:  "Dana Whitfield",
		CustomerEmail: "dana.whitfield@example.com",
		LicensePlate:  "abc-1234",
		CarMake:       "Honda",
		CarModel:      "Civic",
		CarYear:       2019,
		CarMileage:    48200,
		ComplaintText: "Loud grinding noise from the front brakes when stopping.",
	})
	if err != nil {
		t.Fatalf("SubmitComplaint() error = %v", err)
	}
	if result.Complaint.ID == 0 {
		t.Fatal("submission returned no complaint ID")
	}
	if result.Complaint.PredictedCategory == "" {
		t.Error("submission was not classified")
	}

	// Archive the receipt the way both the TUI and CLI do.
	receipt := storage.NewReceipt(&result.Complaint, result.Car.LicensePlate)
	if _, err := archive.SaveReceipt(receipt); err != nil {
		t.Fatalf("SaveReceipt() error = %v", err)
	}

	// Search for the vehicle by plate.
	car, err := client.CarByPlate(ctx, api.NormalizePlate("abc 1234"))
	if err != nil {
		t.Fatalf("CarByPlate() error = %v", err)
	}
	if car.ID != result.Car.ID {
		t.Errorf("CarByPlate() found car %d, want %d", car.ID, result.Car.ID)
	}

	history, err := client.ComplaintHistory(ctx, car.ID)
	if err != nil {
		t.Fatalf("ComplaintHistory() error = %v", err)
	}
	if history.TotalComplaints != 1 {
		t.Errorf("TotalComplaints = %d, want 1", history.TotalComplaints)
	}
	if err := archive.RecordSearch(car.LicensePlate, car.DisplayName, history.TotalComplaints); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}

	// Open a chat about the complaint.
	sess, err := client.CreateChatSession(ctx, result.Complaint.ID)
	if err != nil {
		t.Fatalf("CreateChatSession() error = %v", err)
	}
	if !sess.IsActive {
		t.Error("new session should be active")
	}

	// Exchange one streamed message.
	var chunks []string
	reply, err := client.SendMessage(ctx, sess.ID, "What could cause the grinding?", func(chunk string) {
		chunks = append(chunks, chunk)
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply.Content == "" {
		t.Fatal("reply has no content")
	}
	if strings.Join(chunks, "") != reply.Content {
		t.Error("streamed chunks do not reassemble into the final reply")
	}

	// Close the session; it must reject further sends.
	closed, err := client.CloseChatSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("CloseChatSession() error = %v", err)
	}
	if closed.IsActive {
		t.Error("closed session still reports active")
	}
	if _, err := client.SendMessage(ctx, sess.ID, "still there?", nil); err == nil {
		t.Error("SendMessage to a closed session should fail")
	}

	// Archive the transcript and read everything back.
	tr := model.NewTranscriptFromSession(sess)
	tr.AddUserMessage("What could cause the grinding?")
	tr.AddAssistantPlaceholder()
	tr.AppendToLast(reply.Content)
	tr.FinalizeLast()

	if err := archive.SaveTranscript(storage.NewStoredTranscript(tr)); err != nil {
		t.Fatalf("SaveTranscript() error = %v", err)
	}

	receipts, err := archive.ListReceipts(10)
	if err != nil || len(receipts) != 1 {
		t.Fatalf("ListReceipts() = %d receipts, err = %v, want 1", len(receipts), err)
	}
	if receipts[0].ComplaintID != result.Complaint.ID {
		t.Errorf("archived receipt references complaint %d, want %d", receipts[0].ComplaintID, result.Complaint.ID)
	}

	transcripts, err := archive.ListTranscripts(10)
	if err != nil || len(transcripts) != 1 {
		t.Fatalf("ListTranscripts() = %d transcripts, err = %v, want 1", len(transcripts), err)
	}

	searches, err := archive.RecentSearches(10)
	if err != nil || len(searches) != 1 {
		t.Fatalf("RecentSearches() = %d searches, err = %v, want 1", len(searches), err)
	}
}

// TestWorkflow_ChatAfterReopen verifies a closed session accepts
// messages again after reopening.
func TestWorkflow_ChatAfterReopen(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	result, err := client.SubmitComplaint(ctx, api.QuickSubmitRequest{
		CustomerEmail: "kim@example.com",
		LicensePlate:  "RST-900",
		CarMake:       "Toyota",
		CarModel:      "Camry",
		ComplaintText: "Check engine light stays on after refueling.",
	})
	if err != nil {
		t.Fatalf("SubmitComplaint() error = %v", err)
	}

	sess, err := client.CreateChatSession(ctx, result.Complaint.ID)
	if err != nil {
		t.Fatalf("CreateChatSession() error = %v", err)
	}
	if _, err := client.CloseChatSession(ctx, sess.ID); err != nil {
		t.Fatalf("CloseChatSession() error = %v", err)
	}

	reopened, err := client.ReopenChatSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ReopenChatSession() error = %v", err)
	}
	if !reopened.IsActive {
		t.Fatal("reopened session should be active")
	}

	if _, err := client.SendMessage(ctx, sess.ID, "Back again about the light.", nil); err != nil {
		t.Errorf("SendMessage after reopen error = %v", err)
	}
}

// =============================================================================
// CONCURRENCY
// =============================================================================

// TestConcurrentSubmissions files complaints in parallel and checks
// that every one gets a distinct ID and lands in the statistics.
func TestConcurrentSubmissions(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	const n = 12
	ids := make([]int64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := client.SubmitComplaint(ctx, api.QuickSubmitRequest{
				CustomerEmail: "fleet@example.com",
				LicensePlate:  api.NormalizePlate("flt-" + string(rune('a'+i))),
				CarMake:       "Ford",
				CarModel:      "Transit",
				ComplaintText: "Transmission slips when shifting into third gear.",
			})
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = result.Complaint.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("submission %d error = %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate complaint ID %d", ids[i])
		}
		seen[ids[i]] = true
	}

	stats, err := client.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.TotalComplaints != n {
		t.Errorf("TotalComplaints = %d, want %d", stats.TotalComplaints, n)
	}
}

// TestConcurrentArchiveWrites exercises the archive from parallel
// goroutines the way the TUI's fire-and-forget save commands do.
func TestConcurrentArchiveWrites(t *testing.T) {
	archive := newArchive(t)

	var wg sync.WaitGroup
	errCh := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &model.Complaint{
				ID:                   int64(i + 1),
				ComplaintText:        "Steering wheel shakes above highway speed.",
				PredictedCategory:    "suspension",
				PredictionConfidence: 0.7,
			}
			if _, err := archive.SaveReceipt(storage.NewReceipt(c, "PAR-001")); err != nil {
				errCh <- err
			}
			if err := archive.RecordSearch("PAR-001", "2020 Mazda 3", i); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent archive write error = %v", err)
	}

	receipts, err := archive.ListReceipts(50)
	if err != nil {
		t.Fatalf("ListReceipts() error = %v", err)
	}
	if len(receipts) != 10 {
		t.Errorf("ListReceipts() = %d, want 10", len(receipts))
	}
}
