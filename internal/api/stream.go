// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stream.go - Incremental reader for chunked text responses.
package api

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

// StreamCallback is called for each decoded chunk received during
// streaming. Callbacks run synchronously on the read loop, in order;
// a slow callback delays the next read but cannot reorder chunks.
type StreamCallback func(chunk string)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader consumes a chunked plain-text response incrementally.
//
// Chunks are decoded with carry-over state: a multi-byte UTF-8 sequence
// split across a chunk boundary is held back until its remaining bytes
// arrive, so callbacks never observe a torn character. One read is
// outstanding at a time; the reader is not safe for concurrent use.
type StreamReader struct {
	reader io.Reader
	buf    []byte
	// pending holds the trailing bytes of an incomplete rune, at most
	// utf8.UTFMax-1 of them, until the next chunk completes it.
	pending []byte
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	chunkCount  int
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: r,
		buf:    make([]byte, 4096),
	}
}

// Process reads the stream to completion, invoking the callback for
// each decoded chunk. Blocks until the stream ends, a read fails, or
// the context is cancelled. On failure the accumulated text is not
// meaningful and callers must discard it.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return &ClientError{Type: ErrTypeTimeout, Message: "stream cancelled", Cause: ctx.Err()}
		default:
			text, err := s.readChunk()
			if text != "" {
				s.emit(text, callback)
			}
			if err != nil {
				if err == io.EOF {
					if tail := s.flush(); tail != "" {
						s.emit(tail, callback)
					}
					return nil
				}
				return &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
			}
		}
	}
}

// emit records a decoded chunk and forwards it to the callback.
func (s *StreamReader) emit(text string, callback StreamCallback) {
	s.accumulator.WriteString(text)
	s.chunkCount++
	if callback != nil {
		callback(text)
	}
}

// readChunk reads the next chunk of bytes and decodes what is complete.
// A read may return data and an error together; the data is decoded
// first and the error handled by the caller.
func (s *StreamReader) readChunk() (string, error) {
	n, err := s.reader.Read(s.buf)
	if n > 0 {
		return s.decode(s.buf[:n]), err
	}
	return "", err
}

// decode joins carried bytes with the new chunk and returns the longest
// prefix that ends on a rune boundary. The remainder, if any, is held
// for the next chunk.
func (s *StreamReader) decode(p []byte) string {
	data := p
	if len(s.pending) > 0 {
		data = append(s.pending, p...)
		s.pending = nil
	}

	cut := completeBoundary(data)
	if cut < len(data) {
		s.pending = append([]byte(nil), data[cut:]...)
	}
	return string(data[:cut])
}

// completeBoundary returns the length of the longest prefix of data that
// does not end in the middle of a UTF-8 sequence. Invalid bytes pass
// through untouched; only a genuinely incomplete trailing sequence is
// held back.
func completeBoundary(data []byte) int {
	end := len(data)
	for back := 1; back <= utf8.UTFMax && back <= end; back++ {
		i := end - back
		b := data[i]
		if b < utf8.RuneSelf {
			return end
		}
		if utf8.RuneStart(b) {
			if utf8.FullRune(data[i:]) {
				return end
			}
			return i
		}
	}
	return end
}

// flush drains the decoder state at end of stream. A dangling partial
// sequence decodes to the replacement character, matching streaming
// text decoder semantics.
func (s *StreamReader) flush() string {
	if len(s.pending) == 0 {
		return ""
	}
	s.pending = nil
	return string(utf8.RuneError)
}

// GetAccumulated returns all accumulated content.
func (s *StreamReader) GetAccumulated() string {
	return s.accumulator.String()
}

// GetChunkCount returns the number of decoded chunks emitted.
func (s *StreamReader) GetChunkCount() int {
	return s.chunkCount
}
