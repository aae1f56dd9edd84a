// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the active chat session and its local lifecycle.
package session

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// =============================================================================
// LIFECYCLE PHASES
// =============================================================================

// Phase is the local chat session lifecycle phase.
type Phase int

const (
	// PhaseNone means no session exists locally.
	PhaseNone Phase = iota
	// PhaseActive means a backend session is open and accepting messages.
	PhaseActive
	// PhaseClosed means the session ended; the transcript remains viewable.
	PhaseClosed
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseActive:
		return "active"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lifecycle errors.
var (
	// ErrSessionActive is returned when starting over an active session.
	ErrSessionActive = errors.New("a chat session is already active")
	// ErrNoSession is returned for operations that need an active session.
	ErrNoSession = errors.New("no active chat session")
	// ErrSendInFlight is returned when a send overlaps an unfinished one.
	ErrSendInFlight = errors.New("a message is already being sent")
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State owns the current chat session on the client side: the backend
// session handle, the complaint and car that opened it, the transcript,
// and the single-send guard. All methods are safe for concurrent use.
type State struct {
	mu sync.Mutex

	phase      Phase
	session    *model.ChatSession
	complaint  *model.Complaint
	car        *model.Car
	transcript *model.Transcript

	// Only one send may be outstanding at a time; replies stream back
	// incrementally and interleaved sends would corrupt the transcript.
	sendInFlight bool

	startTime    time.Time
	lastActivity time.Time

	// Archive bookkeeping
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool
}

// Config holds configuration for the session state.
type Config struct {
	// AutoSaveEnabled enables periodic transcript archiving
	AutoSaveEnabled bool

	// AutoSaveInterval is how often to archive a dirty transcript (default: 30 seconds)
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewState creates an empty session state.
func NewState(cfg Config) *State {
	now := time.Now()
	if cfg.AutoSaveInterval == 0 {
		cfg.AutoSaveInterval = DefaultConfig().AutoSaveInterval
	}
	return &State{
		phase:            PhaseNone,
		startTime:        now,
		lastActivity:     now,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// Start installs a freshly created backend session and moves to
// PhaseActive. Valid from PhaseNone and PhaseClosed (reopen); starting
// over an active session is an error.
func (s *State) Start(sess *model.ChatSession, complaint *model.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseActive {
		return ErrSessionActive
	}

	s.phase = PhaseActive
	s.session = sess
	s.complaint = complaint
	s.transcript = model.NewTranscriptFromSession(sess)
	s.sendInFlight = false
	s.startTime = time.Now()
	s.lastActivity = s.startTime
	s.isDirty = true
	return nil
}

// Close moves to PhaseClosed and reports the backend session ID so the
// caller can issue the best-effort network close. The transcript stays
// readable until Reset. Closing with no session is a no-op.
func (s *State) Close() (sessionID int64, hadSession bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive || s.session == nil {
		s.phase = PhaseClosed
		return 0, false
	}

	s.phase = PhaseClosed
	s.sendInFlight = false
	return s.session.ID, true
}

// Reset drops everything and returns to PhaseNone.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = PhaseNone
	s.session = nil
	s.complaint = nil
	s.transcript = nil
	s.sendInFlight = false
	s.isDirty = false
}

// Phase returns the current lifecycle phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IsActive reports whether a session is open and accepting messages.
func (s *State) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseActive
}

// =============================================================================
// SESSION ACCESS
// =============================================================================

// Session returns the backend session handle, if any.
func (s *State) Session() (*model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, false
	}
	return s.session, true
}

// SessionID returns the backend session ID, or 0 when none exists.
func (s *State) SessionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0
	}
	return s.session.ID
}

// Transcript returns the local transcript, if any.
func (s *State) Transcript() *model.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Complaint returns the complaint that opened the session, if any.
func (s *State) Complaint() *model.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complaint
}

// SetContext records the car and complaint handed over from the submit
// or search flow, before a session exists.
func (s *State) SetContext(car *model.Car, complaint *model.Complaint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.car = car
	s.complaint = complaint
}

// Car returns the car in context, if any.
func (s *State) Car() *model.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.car
}

// =============================================================================
// SEND GUARD
// =============================================================================

// BeginSend claims the single send slot. It fails when no session is
// active or another send is still streaming.
func (s *State) BeginSend() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseActive {
		return ErrNoSession
	}
	if s.sendInFlight {
		return ErrSendInFlight
	}
	s.sendInFlight = true
	s.lastActivity = time.Now()
	return nil
}

// EndSend releases the send slot.
func (s *State) EndSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendInFlight = false
	s.isDirty = true
}

// SendInFlight reports whether a send is currently streaming.
func (s *State) SendInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendInFlight
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity updates the last activity timestamp.
func (s *State) RecordActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Duration returns how long the session has been active.
func (s *State) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startTime)
}

// IdleTime returns how long since last activity.
func (s *State) IdleTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity)
}

// MarkDirty indicates the transcript has unarchived changes.
func (s *State) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDirty = true
}

// MarkClean indicates the transcript has been archived.
func (s *State) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDirty = false
	s.lastAutoSave = time.Now()
}

// IsDirty returns whether the transcript has unarchived changes.
func (s *State) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDirty
}

// ShouldAutoSave returns true if the transcript should be archived now.
func (s *State) ShouldAutoSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.autoSaveEnabled || !s.isDirty || s.transcript == nil {
		return false
	}
	return time.Since(s.lastAutoSave) >= s.autoSaveInterval
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// AutoSaveMsg indicates the transcript should be archived.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks periodically.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick processes a tick and returns appropriate messages.
func (s *State) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	if s.ShouldAutoSave() {
		cmds = append(cmds, func() tea.Msg {
			return AutoSaveMsg{}
		})
	}

	// Continue ticking
	cmds = append(cmds, TickCmd())

	return tea.Batch(cmds...)
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents a snapshot of the current session state.
type Status struct {
	Phase        Phase
	SessionID    int64
	CarDisplay   string
	Duration     time.Duration
	IdleTime     time.Duration
	MessageCount int
	SendInFlight bool
	IsDirty      bool
}

// GetStatus returns the current session status.
func (s *State) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	st := Status{
		Phase:        s.phase,
		Duration:     now.Sub(s.startTime),
		IdleTime:     now.Sub(s.lastActivity),
		SendInFlight: s.sendInFlight,
		IsDirty:      s.isDirty,
	}
	if s.session != nil {
		st.SessionID = s.session.ID
		st.CarDisplay = s.session.CarDisplay
	}
	if s.transcript != nil {
		st.MessageCount = s.transcript.MessageCount()
	}
	return st
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
