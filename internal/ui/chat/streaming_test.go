// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"testing"
	"time"
)

// TestStreamingBuffer_BatchFlush verifies the chunk-count threshold.
func TestStreamingBuffer_BatchFlush(t *testing.T) {
	// maxFPS 1 -> 1s between time-based drains, so only the batch
	// threshold can trigger within this test.
	sb := NewStreamingBufferWithConfig(3, 1)

	sb.Write("a")
	sb.Write("b")
	if _, ok := sb.Flush(); ok {
		t.Error("Flush should not drain below the batch threshold")
	}

	sb.Write("c")
	content, ok := sb.Flush()
	if !ok {
		t.Fatal("Flush should drain at the batch threshold")
	}
	if content != "abc" {
		t.Errorf("Flush content = %q, want abc", content)
	}
	if sb.Pending() != 0 {
		t.Errorf("Pending = %d after drain, want 0", sb.Pending())
	}
}

// TestStreamingBuffer_TimeFlush verifies the time threshold drains a
// partial batch.
func TestStreamingBuffer_TimeFlush(t *testing.T) {
	sb := NewStreamingBufferWithConfig(1000, 60) // ~16ms interval

	sb.Write("slow")
	time.Sleep(25 * time.Millisecond)

	content, ok := sb.Flush()
	if !ok {
		t.Fatal("Flush should drain once the interval has passed")
	}
	if content != "slow" {
		t.Errorf("Flush content = %q, want slow", content)
	}
}

// TestStreamingBuffer_EmptyFlush verifies an empty buffer never drains.
func TestStreamingBuffer_EmptyFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	if _, ok := sb.Flush(); ok {
		t.Error("Flush on empty buffer should report nothing")
	}
	if _, ok := sb.ForceFlush(); ok {
		t.Error("ForceFlush on empty buffer should report nothing")
	}
}

// TestStreamingBuffer_ForceFlush verifies ForceFlush ignores thresholds.
func TestStreamingBuffer_ForceFlush(t *testing.T) {
	sb := NewStreamingBufferWithConfig(100, 1)

	sb.Write("tail")
	content, ok := sb.ForceFlush()
	if !ok || content != "tail" {
		t.Errorf("ForceFlush = %q, %v, want tail, true", content, ok)
	}
}

// TestStreamingBuffer_Reset verifies rolled-back chunks are discarded.
func TestStreamingBuffer_Reset(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("discarded")
	sb.Reset()

	if sb.Pending() != 0 {
		t.Errorf("Pending = %d after Reset, want 0", sb.Pending())
	}
	if _, ok := sb.ForceFlush(); ok {
		t.Error("ForceFlush after Reset should report nothing")
	}
}

// TestStreamingBuffer_DefaultsClamped verifies invalid config values
// fall back to the defaults.
func TestStreamingBuffer_DefaultsClamped(t *testing.T) {
	sb := NewStreamingBufferWithConfig(0, 999)
	if sb.batchSize != defaultBatchSize {
		t.Errorf("batchSize = %d, want %d", sb.batchSize, defaultBatchSize)
	}
	want := time.Duration(1000/defaultMaxFPS) * time.Millisecond
	if sb.minFlushMs != want {
		t.Errorf("minFlushMs = %v, want %v", sb.minFlushMs, want)
	}
}

// TestStreamingBuffer_ConcurrentWrites exercises the writer/drainer
// split: chunks written from goroutines all come out exactly once.
func TestStreamingBuffer_ConcurrentWrites(t *testing.T) {
	sb := NewStreamingBufferWithConfig(1, 60)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				sb.Write("x")
			}
		}()
	}
	wg.Wait()

	var total int
	for {
		content, ok := sb.ForceFlush()
		if !ok {
			break
		}
		total += len(content)
	}
	if total != writers*perWriter {
		t.Errorf("drained %d bytes, want %d", total, writers*perWriter)
	}
}
