// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// streaming.go - Token coalescing for the reply stream.
//
// The mechanic's reply can arrive as hundreds of tiny chunks per
// second. Rendering each one individually floods the event loop, so
// chunks are parked in a StreamingBuffer and drained on a ~30fps tick.
// Chunk order is preserved; only redraw frequency changes.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer accumulates reply chunks between redraws. A drain is
// due once either threshold is hit: enough chunks have piled up, or
// enough time has passed since the last drain.
//
// Writes come from the stream runner goroutine while drains happen on
// the Bubble Tea loop, so every operation takes the mutex.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	chunkCount int
	lastFlush  time.Time

	batchSize  int           // chunks per drain
	minFlushMs time.Duration // min interval between drains
}

// Buffer defaults: 15 chunks per batch, drains capped at 30fps.
const (
	defaultBatchSize = 15
	defaultMaxFPS    = 30
)

// NewStreamingBuffer creates a buffer with the default thresholds.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(defaultBatchSize, defaultMaxFPS)
}

// NewStreamingBufferWithConfig creates a buffer with custom thresholds.
// Out-of-range values fall back to the defaults.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = defaultMaxFPS
	}
	return &StreamingBuffer{
		batchSize:  batchSize,
		minFlushMs: time.Duration(1000/maxFPS) * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// Write parks a chunk in the buffer. Called from the stream runner.
func (sb *StreamingBuffer) Write(chunk string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(chunk)
	sb.chunkCount++
}

// Flush returns the accumulated text if a drain is due. The second
// return is false when the buffer is empty or neither threshold has
// been reached yet.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 || !sb.dueLocked() {
		return "", false
	}
	return sb.drainLocked(), true
}

// ForceFlush drains everything regardless of thresholds. Used when a
// stream completes so no trailing chunks are lost.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked(), true
}

// Reset discards buffered chunks without draining. Used when an
// exchange is rolled back.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.chunkCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of chunks waiting to drain.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.chunkCount
}

// dueLocked reports whether either drain threshold has been reached.
// Caller holds the mutex.
func (sb *StreamingBuffer) dueLocked() bool {
	if sb.chunkCount >= sb.batchSize {
		return true
	}
	return time.Since(sb.lastFlush) >= sb.minFlushMs
}

// drainLocked extracts the buffered text and resets the counters.
// Caller holds the mutex.
func (sb *StreamingBuffer) drainLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.chunkCount = 0
	sb.lastFlush = time.Now()
	return content
}

// =============================================================================
// STREAMING TICK
// =============================================================================

// streamTickInterval matches the buffer's 30fps drain cap.
const streamTickInterval = 33 * time.Millisecond

// streamTickCmd schedules the next coalescing tick. The update loop
// keeps rescheduling it for as long as a stream is in flight.
func streamTickCmd() tea.Cmd {
	return tea.Tick(streamTickInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
