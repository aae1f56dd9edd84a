// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// MIDDLEWARE CHAIN
// =============================================================================

// Chain composes middleware functions into one. Middlewares execute in
// the order provided.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply in reverse so the first listed middleware runs first.
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// =============================================================================
// RECOVERY
// =============================================================================

// RecoveryMiddleware catches panics in downstream handlers, logs the
// stack trace, and returns a 500 instead of crashing the server.
func RecoveryMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Printf("PANIC_RECOVERED | method=%s path=%s error=%v\n%s",
						r.Method,
						r.URL.Path,
						err,
						string(debug.Stack()),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// REQUEST LOGGING
// =============================================================================

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader captures the status code before writing it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush passes flushes through so streamed responses keep working
// behind the logging wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingMiddleware logs every request.
//
// Log format: "2024-01-15 14:30:45 | POST /api/v1/chat/sessions/ | 201 | 0.004s"
func LoggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			logger.Printf("%s | %s %s | %d | %.3fs",
				start.Format("2006-01-02 15:04:05"),
				r.Method,
				r.URL.Path,
				wrapped.statusCode,
				time.Since(start).Seconds(),
			)
		})
	}
}

// =============================================================================
// RATE LIMITING
// =============================================================================

// RateLimiter implements sliding-window rate limiting per client IP.
type RateLimiter struct {
	// requests maps IP addresses to their request timestamps.
	requests map[string][]time.Time

	// limit is the maximum number of requests per window.
	limit int

	// window is the time window for rate limiting.
	window time.Duration

	// mu protects concurrent access to the requests map.
	mu sync.Mutex
}

// NewRateLimiter creates a RateLimiter with the given limit and window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

// DefaultRateLimiter returns a RateLimiter allowing 300 requests per
// minute. Chat traffic from a single client stays well under this; it
// exists to stop runaway loops, not to meter real use.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(300, time.Minute)
}

// Allow reports whether a request from the given IP should proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	timestamps := rl.requests[ip]
	valid := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false
	}

	valid = append(valid, now)
	rl.requests[ip] = valid

	return true
}

// cleanup periodically drops IPs with no requests in the window.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		windowStart := time.Now().Add(-rl.window)

		for ip, timestamps := range rl.requests {
			valid := make([]time.Time, 0, len(timestamps))
			for _, ts := range timestamps {
				if ts.After(windowStart) {
					valid = append(valid, ts)
				}
			}

			if len(valid) == 0 {
				delete(rl.requests, ip)
			} else {
				rl.requests[ip] = valid
			}
		}
		rl.mu.Unlock()
	}
}

// GetRemaining returns how many requests the IP has left in the window.
func (rl *RateLimiter) GetRemaining(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := time.Now().Add(-rl.window)

	count := 0
	for _, ts := range rl.requests[ip] {
		if ts.After(windowStart) {
			count++
		}
	}

	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RateLimitMiddleware enforces the rate limit, returning 429 with a
// Retry-After header when exceeded.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := GetClientIP(r)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.limit))

			if !limiter.Allow(clientIP) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(limiter.window.Seconds())))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limiter.GetRemaining(clientIP)))

			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// CLIENT IP
// =============================================================================

// getRemoteIP extracts the IP address from r.RemoteAddr, which is in
// the form "IP:port" or "[IPv6]:port".
func getRemoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// GetClientIP extracts the client IP for rate limiting. Forwarded
// headers are honored only on loopback connections; the server binds
// localhost, so anything else setting them is spoofing.
func GetClientIP(r *http.Request) string {
	connIP := getRemoteIP(r.RemoteAddr)

	ip := net.ParseIP(connIP)
	if ip == nil || !ip.IsLoopback() {
		return connIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	return connIP
}
