// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultPort matches the real backend's development port.
	DefaultPort = 8000

	// MaxRequestBodySize caps request bodies (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MinComplaintLength is the shortest complaint the classifier accepts.
	MinComplaintLength = 10

	// DefaultChunkSize is the streaming chunk size in bytes. Chunks cut
	// on byte boundaries, not rune boundaries; the replies contain
	// multi-byte glyphs, so clients must decode statefully, exactly as
	// they must against real proxied traffic.
	DefaultChunkSize = 17

	// DefaultStreamDelay paces streamed chunks.
	DefaultStreamDelay = 2 * time.Millisecond

	// Version is the mock backend version reported by /health.
	Version = "1.0.0"
)

// =============================================================================
// SERVER STATS
// =============================================================================

// ServerStats tracks mock backend usage counters.
type ServerStats struct {
	TotalRequests int64     `json:"total_requests"`
	Submissions   int64     `json:"submissions"`
	PlateSearches int64     `json:"plate_searches"`
	ChatMessages  int64     `json:"chat_messages"`
	StreamedBytes int64     `json:"streamed_bytes"`
	StartTime     time.Time `json:"start_time"`

	mu sync.Mutex
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

// RecordRequest counts one handled request.
func (s *ServerStats) RecordRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
}

// RecordSubmission counts one complaint submission.
func (s *ServerStats) RecordSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submissions++
}

// RecordSearch counts one plate search.
func (s *ServerStats) RecordSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PlateSearches++
}

// RecordStream counts one chat message and its streamed bytes.
func (s *ServerStats) RecordStream(bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ChatMessages++
	s.StreamedBytes += bytes
}

// GetStats returns a copy of the current stats.
func (s *ServerStats) GetStats() ServerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ServerStats{
		TotalRequests: s.TotalRequests,
		Submissions:   s.Submissions,
		PlateSearches: s.PlateSearches,
		ChatMessages:  s.ChatMessages,
		StreamedBytes: s.StreamedBytes,
		StartTime:     s.StartTime,
	}
}

// Uptime returns how long the server has been running.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// =============================================================================
// SERVER
// =============================================================================

// Server is the mock garage backend: the full HTTP surface the client
// consumes, with an in-memory store, a keyword classifier, and genuine
// chunked streaming for chat replies.
type Server struct {
	port   int
	router *http.ServeMux
	server *http.Server

	store *Store
	stats *ServerStats

	chunkSize   int
	streamDelay time.Duration
	logger      *log.Logger

	mu sync.RWMutex
}

// NewServer creates a mock backend on the given port. Port 0 means the
// default development port.
func NewServer(port int) *Server {
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		port:        port,
		router:      http.NewServeMux(),
		store:       NewStore(),
		stats:       NewServerStats(),
		chunkSize:   DefaultChunkSize,
		streamDelay: DefaultStreamDelay,
		logger:      log.Default(),
	}

	s.setupRoutes()
	return s
}

// WithStore replaces the backing store.
func (s *Server) WithStore(store *Store) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	return s
}

// WithChunkSize sets the streaming chunk size in bytes. Values below 1
// are ignored.
func (s *Server) WithChunkSize(size int) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size >= 1 {
		s.chunkSize = size
	}
	return s
}

// WithStreamDelay sets the pause between streamed chunks. Zero disables
// pacing, which keeps tests fast.
func (s *Server) WithStreamDelay(delay time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delay >= 0 {
		s.streamDelay = delay
	}
	return s
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(logger *log.Logger) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
	return s
}

// Store exposes the backing store so callers can seed or inspect it.
func (s *Server) Store() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// =============================================================================
// ROUTES
// =============================================================================

// setupRoutes configures all HTTP routes. The {$} suffix anchors each
// pattern so the Django-style trailing slashes match exactly.
func (s *Server) setupRoutes() {
	// Complaint endpoints
	s.router.HandleFunc("POST /api/v1/complaints/quick-submit/{$}", s.handleQuickSubmit)
	s.router.HandleFunc("GET /api/v1/complaints/statistics/{$}", s.handleStatistics)
	s.router.HandleFunc("GET /api/v1/complaints/categories/{$}", s.handleCategories)

	// Car endpoints
	s.router.HandleFunc("GET /api/v1/cars/by_license_plate/{$}", s.handleCarByPlate)
	s.router.HandleFunc("GET /api/v1/cars/{id}/complaint_history/{$}", s.handleComplaintHistory)

	// Chat endpoints
	s.router.HandleFunc("POST /api/v1/chat/sessions/{$}", s.handleCreateSession)
	s.router.HandleFunc("GET /api/v1/chat/sessions/{id}/{$}", s.handleGetSession)
	s.router.HandleFunc("POST /api/v1/chat/sessions/{id}/send_message/{$}", s.handleSendMessage)
	s.router.HandleFunc("POST /api/v1/chat/sessions/{id}/close/{$}", s.handleCloseSession)
	s.router.HandleFunc("POST /api/v1/chat/sessions/{id}/reopen/{$}", s.handleReopenSession)

	// Operational endpoints (mock-only)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)
}

// =============================================================================
// COMPLAINT HANDLERS
// =============================================================================

// quickSubmitPayload is the submission request body.
type quickSubmitPayload struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	LicensePlate  string `json:"license_plate"`
	CarMake       string `json:"car_make"`
	CarModel      string `json:"car_model"`
	CarYear       int    `json:"car_year"`
	CarMileage    int    `json:"car_mileage"`
	ComplaintText string `json:"complaint_text"`
	Crash         bool   `json:"crash"`
	Fire          bool   `json:"fire"`
}

// validate applies the backend's field rules, aggregating per-field
// error lists the way the real serializer reports them.
func (p *quickSubmitPayload) validate() map[string][]string {
	errs := make(map[string][]string)

	if strings.TrimSpace(p.CustomerName) == "" {
		errs["customer_name"] = append(errs["customer_name"], "This field is required.")
	}
	if strings.TrimSpace(p.CustomerEmail) == "" && strings.TrimSpace(p.CustomerPhone) == "" {
		errs["customer_email"] = append(errs["customer_email"], "Provide at least one contact method (email or phone).")
	}
	if strings.TrimSpace(p.LicensePlate) == "" {
		errs["license_plate"] = append(errs["license_plate"], "This field is required.")
	}
	if len(strings.TrimSpace(p.ComplaintText)) < MinComplaintLength {
		errs["complaint_text"] = append(errs["complaint_text"],
			fmt.Sprintf("Complaint text must be at least %d characters long.", MinComplaintLength))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// submissionData mirrors the wire envelope's data object.
type submissionData struct {
	Customer  model.Customer  `json:"customer"`
	Car       model.Car       `json:"car"`
	Complaint model.Complaint `json:"complaint"`
}

// handleQuickSubmit handles POST /api/v1/complaints/quick-submit/.
func (s *Server) handleQuickSubmit(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var payload quickSubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Printf("SUBMIT_BAD_BODY | error=%v", err)
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  map[string][]string{"non_field_errors": {"Invalid request format"}},
		})
		return
	}

	if errs := payload.validate(); errs != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  errs,
		})
		return
	}

	submission := s.Store().Submit(payload)
	s.stats.RecordSubmission()
	s.logger.Printf("SUBMIT | plate=%s category=%s confidence=%.2f",
		submission.Car.LicensePlate,
		submission.Complaint.PredictedCategory,
		submission.Complaint.PredictionConfidence)

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Complaint submitted successfully",
		"data": submissionData{
			Customer:  submission.Customer,
			Car:       submission.Car,
			Complaint: submission.Complaint,
		},
	})
}

// handleStatistics handles GET /api/v1/complaints/statistics/.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()
	s.writeJSON(w, http.StatusOK, s.Store().Statistics())
}

// handleCategories handles GET /api/v1/complaints/categories/.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()

	codes := model.CategoryCodes()
	options := make([]model.CategoryOption, 0, len(codes))
	for _, code := range codes {
		options = append(options, model.CategoryOption{
			Value: code,
			Label: model.CategoryByCode(code).Label,
		})
	}
	s.writeJSON(w, http.StatusOK, options)
}

// =============================================================================
// CAR HANDLERS
// =============================================================================

// handleCarByPlate handles GET /api/v1/cars/by_license_plate/?plate=X.
func (s *Server) handleCarByPlate(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()
	s.stats.RecordSearch()

	plate := strings.TrimSpace(r.URL.Query().Get("plate"))
	if plate == "" {
		s.writeFieldError(w, http.StatusBadRequest, "Please provide a license plate number")
		return
	}

	car, err := s.Store().CarByPlate(plate)
	if err != nil {
		s.writeFieldError(w, http.StatusNotFound, "No car found with license plate: "+plate)
		return
	}
	s.writeJSON(w, http.StatusOK, car)
}

// handleComplaintHistory handles GET /api/v1/cars/{id}/complaint_history/.
func (s *Server) handleComplaintHistory(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	history, err := s.Store().History(id)
	if err != nil {
		s.writeFieldError(w, http.StatusNotFound, "Car not found")
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

// =============================================================================
// CHAT HANDLERS
// =============================================================================

// createSessionPayload keys a new session to a complaint.
type createSessionPayload struct {
	ComplaintID int64 `json:"complaint_id"`
}

// handleCreateSession handles POST /api/v1/chat/sessions/.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var payload createSessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeFieldError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	session, err := s.Store().CreateSession(payload.ComplaintID)
	if err != nil {
		s.writeFieldError(w, http.StatusBadRequest, "No complaint found with id: "+strconv.FormatInt(payload.ComplaintID, 10))
		return
	}

	s.logger.Printf("SESSION_CREATE | session=%d complaint=%d", session.ID, payload.ComplaintID)
	s.writeJSON(w, http.StatusCreated, session)
}

// handleGetSession handles GET /api/v1/chat/sessions/{id}/.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	session, err := s.Store().Session(id)
	if err != nil {
		s.writeFieldError(w, http.StatusNotFound, "Chat session not found")
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

// sendMessagePayload carries the user's chat message.
type sendMessagePayload struct {
	Message string `json:"message"`
}

// handleSendMessage handles POST /api/v1/chat/sessions/{id}/send_message/.
// The reply streams as chunked text/plain; the full reply is saved to
// the session after the stream completes, matching the real backend.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var payload sendMessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeFieldError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		s.writeFieldError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	session, err := s.Store().AppendUserMessage(id, message)
	switch err {
	case nil:
	case ErrSessionNotFound:
		s.writeFieldError(w, http.StatusNotFound, "Chat session not found")
		return
	case ErrSessionClosed:
		s.writeFieldError(w, http.StatusBadRequest, "This chat session is closed")
		return
	default:
		s.writeFieldError(w, http.StatusInternalServerError, "Request processing failed")
		return
	}

	reply := mechanicReply(session, message)
	streamed := s.streamReply(w, r, reply)
	s.stats.RecordStream(int64(streamed))

	if streamed == len(reply) {
		if err := s.Store().AppendAssistantMessage(id, reply); err != nil {
			s.logger.Printf("STREAM_SAVE_FAILED | session=%d error=%v", id, err)
		}
	} else {
		s.logger.Printf("STREAM_ABORTED | session=%d sent=%d of=%d", id, streamed, len(reply))
	}
}

// streamReply writes the reply as a chunked text/plain stream, flushing
// after every chunk. Returns how many bytes went out; a client
// disconnect stops the stream early.
func (s *Server) streamReply(w http.ResponseWriter, r *http.Request, reply string) int {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		// No flush support means one chunk; the client still decodes it.
		n, _ := w.Write([]byte(reply))
		return n
	}

	s.mu.RLock()
	chunkSize := s.chunkSize
	delay := s.streamDelay
	s.mu.RUnlock()

	ctx := r.Context()
	sent := 0
	for sent < len(reply) {
		select {
		case <-ctx.Done():
			return sent
		default:
		}

		end := sent + chunkSize
		if end > len(reply) {
			end = len(reply)
		}
		n, err := w.Write([]byte(reply[sent:end]))
		sent += n
		if err != nil {
			return sent
		}
		flusher.Flush()

		if delay > 0 && sent < len(reply) {
			select {
			case <-ctx.Done():
				return sent
			case <-time.After(delay):
			}
		}
	}
	return sent
}

// closeEnvelope is the close/reopen success response.
type closeEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Session model.ChatSession `json:"session"`
}

// handleCloseSession handles POST /api/v1/chat/sessions/{id}/close/.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	session, err := s.Store().CloseSession(id)
	switch err {
	case nil:
	case ErrSessionNotFound:
		s.writeFieldError(w, http.StatusNotFound, "Chat session not found")
		return
	case ErrSessionClosed:
		s.writeMessage(w, http.StatusBadRequest, "Session is already closed")
		return
	default:
		s.writeFieldError(w, http.StatusInternalServerError, "Request processing failed")
		return
	}

	s.logger.Printf("SESSION_CLOSE | session=%d messages=%d", session.ID, session.TotalMessages)
	s.writeJSON(w, http.StatusOK, closeEnvelope{
		Success: true,
		Message: "Chat session closed successfully",
		Session: session,
	})
}

// handleReopenSession handles POST /api/v1/chat/sessions/{id}/reopen/.
func (s *Server) handleReopenSession(w http.ResponseWriter, r *http.Request) {
	s.stats.RecordRequest()

	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	session, err := s.Store().ReopenSession(id)
	switch err {
	case nil:
	case ErrSessionNotFound:
		s.writeFieldError(w, http.StatusNotFound, "Chat session not found")
		return
	case ErrSessionActive:
		s.writeMessage(w, http.StatusBadRequest, "Session is already active")
		return
	default:
		s.writeFieldError(w, http.StatusInternalServerError, "Request processing failed")
		return
	}

	s.writeJSON(w, http.StatusOK, closeEnvelope{
		Success: true,
		Message: "Chat session reopened successfully",
		Session: session,
	})
}

// =============================================================================
// OPERATIONAL HANDLERS
// =============================================================================

// HealthResponse is the mock-only health payload.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	TotalRequests int64  `json:"total_requests"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.GetStats()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       Version,
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
		TotalRequests: stats.TotalRequests,
	})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.stats.GetStats())
}

// =============================================================================
// SERVER LIFECYCLE
// =============================================================================

// Handler returns the middleware-wrapped handler. Tests mount this on
// an httptest.Server instead of binding a real port.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()

	return Chain(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)
}

// Start starts the HTTP server on localhost.
func (s *Server) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		// Streamed replies can outlive short write timeouts.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Printf("SERVER_START | addr=%s version=%s", addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Printf("SERVER_SHUTDOWN | requests=%d", s.stats.GetStats().TotalRequests)
	return s.server.Shutdown(ctx)
}

// =============================================================================
// HELPERS
// =============================================================================

// pathID parses the {id} path segment, writing a 404 on garbage.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeFieldError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("WRITE_JSON_FAILED | error=%v", err)
	}
}

// writeFieldError writes {"error": ...}, the shape the plate search and
// send_message endpoints use.
func (s *Server) writeFieldError(w http.ResponseWriter, status int, text string) {
	s.writeJSON(w, status, map[string]string{"error": text})
}

// writeMessage writes {"message": ...}, the shape the session lifecycle
// endpoints use for state conflicts.
func (s *Server) writeMessage(w http.ResponseWriter, status int, text string) {
	s.writeJSON(w, status, map[string]string{"message": text})
}
