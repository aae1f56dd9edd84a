// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// store.go - In-memory fleet state behind the mock garage backend.
package server

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// Store errors. Handlers map these to the wire error shapes.
var (
	ErrCarNotFound       = errors.New("car not found")
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrSessionNotFound   = errors.New("chat session not found")
	ErrSessionClosed     = errors.New("chat session is closed")
	ErrSessionActive     = errors.New("chat session is active")
)

// =============================================================================
// STORE
// =============================================================================

// Store holds the mock backend's fleet state: customers, cars,
// complaints, and chat sessions. All methods are safe for concurrent
// use and return copies, never internal pointers.
type Store struct {
	mu sync.Mutex

	customers  map[int64]*model.Customer
	cars       map[int64]*model.Car
	carByPlate map[int64]string // car ID -> normalized plate for reverse lookup
	plateIndex map[string]int64 // normalized plate -> car ID
	complaints map[int64]*model.Complaint
	// carComplaints preserves submission order per car.
	carComplaints map[int64][]int64
	sessions      map[int64]*model.ChatSession

	nextCustomerID  int64
	nextCarID       int64
	nextComplaintID int64
	nextSessionID   int64
	nextMessageID   int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		customers:     make(map[int64]*model.Customer),
		cars:          make(map[int64]*model.Car),
		carByPlate:    make(map[int64]string),
		plateIndex:    make(map[string]int64),
		complaints:    make(map[int64]*model.Complaint),
		carComplaints: make(map[int64][]int64),
		sessions:      make(map[int64]*model.ChatSession),
	}
}

// normalizePlate canonicalizes a plate the way the backend stores them:
// upper case with inner whitespace collapsed. Matches the client's
// NormalizePlate, so round trips compare exactly.
func normalizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return strings.Join(strings.Fields(plate), " ")
}

// displayName formats a car's display name: "2019 Honda Civic".
func displayName(year int, carMake, carModel, plate string) string {
	parts := make([]string, 0, 3)
	if year > 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	if carMake != "" {
		parts = append(parts, carMake)
	}
	if carModel != "" {
		parts = append(parts, carModel)
	}
	if len(parts) == 0 {
		return "Vehicle " + plate
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission bundles the records created or touched by a quick submit.
type Submission struct {
	Customer  model.Customer
	Car       model.Car
	Complaint model.Complaint
}

// Submit records a complaint. An existing car (matched by plate) is
// reused along with its customer; otherwise both are created. The
// complaint is classified by the keyword mock and attached to the car.
func (st *Store) Submit(req quickSubmitPayload) Submission {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	plate := normalizePlate(req.LicensePlate)

	var car *model.Car
	if id, ok := st.plateIndex[plate]; ok {
		car = st.cars[id]
	} else {
		st.nextCustomerID++
		customer := &model.Customer{
			ID:    st.nextCustomerID,
			Name:  strings.TrimSpace(req.CustomerName),
			Email: strings.TrimSpace(req.CustomerEmail),
			Phone: strings.TrimSpace(req.CustomerPhone),
		}
		st.customers[customer.ID] = customer

		st.nextCarID++
		car = &model.Car{
			ID:           st.nextCarID,
			Customer:     *customer,
			LicensePlate: plate,
			Make:         strings.TrimSpace(req.CarMake),
			Model:        strings.TrimSpace(req.CarModel),
			Year:         req.CarYear,
			Mileage:      req.CarMileage,
			DisplayName:  displayName(req.CarYear, strings.TrimSpace(req.CarMake), strings.TrimSpace(req.CarModel), plate),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		st.cars[car.ID] = car
		st.carByPlate[car.ID] = plate
		st.plateIndex[plate] = car.ID
	}

	text := strings.TrimSpace(req.ComplaintText)
	code, confidence := classify(text, req.Crash, req.Fire)
	category := model.CategoryByCode(code)

	st.nextComplaintID++
	complaint := &model.Complaint{
		ID:                   st.nextComplaintID,
		CustomerName:         car.Customer.Name,
		CarDisplayName:       car.DisplayName,
		ComplaintText:        text,
		CleanedText:          cleanText(text),
		PredictedCategory:    code,
		PredictionConfidence: confidence,
		CategoryDisplay:      category.Label,
		Crash:                req.Crash,
		Fire:                 req.Fire,
		IsCritical:           req.Crash || req.Fire,
		Analysis:             analysisFor(category, confidence, req.Crash, req.Fire),
		FormattedDate:        now.Format("January 2, 2006 at 3:04 PM"),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	st.complaints[complaint.ID] = complaint
	st.carComplaints[car.ID] = append(st.carComplaints[car.ID], complaint.ID)

	car.TotalComplaints = len(st.carComplaints[car.ID])
	car.UpdatedAt = now
	complaint.Car = *car

	return Submission{
		Customer:  car.Customer,
		Car:       *car,
		Complaint: *complaint,
	}
}

// cleanText is the mock's stand-in for the backend's text preprocessing:
// lower case with whitespace collapsed.
func cleanText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// =============================================================================
// LOOKUPS
// =============================================================================

// CarByPlate finds a car by license plate.
func (st *Store) CarByPlate(plate string) (model.Car, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id, ok := st.plateIndex[normalizePlate(plate)]
	if !ok {
		return model.Car{}, ErrCarNotFound
	}
	car := *st.cars[id]
	return car, nil
}

// History returns a car's complaints, newest first.
func (st *Store) History(carID int64) (model.ComplaintHistory, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	car, ok := st.cars[carID]
	if !ok {
		return model.ComplaintHistory{}, ErrCarNotFound
	}

	ids := st.carComplaints[carID]
	complaints := make([]model.Complaint, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		complaints = append(complaints, *st.complaints[ids[i]])
	}

	return model.ComplaintHistory{
		Car:             *car,
		TotalComplaints: len(complaints),
		Complaints:      complaints,
	}, nil
}

// Complaint returns a complaint by ID.
func (st *Store) Complaint(id int64) (model.Complaint, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	c, ok := st.complaints[id]
	if !ok {
		return model.Complaint{}, ErrComplaintNotFound
	}
	return *c, nil
}

// Statistics computes fleet-wide complaint statistics. The by-category
// breakdown is ordered by count descending, code ascending on ties, the
// ordering the real backend's GROUP BY produces.
func (st *Store) Statistics() model.Statistics {
	st.mu.Lock()
	defer st.mu.Unlock()

	stats := model.Statistics{TotalComplaints: len(st.complaints)}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)

	counts := make(map[string]int)
	for _, c := range st.complaints {
		counts[c.PredictedCategory]++
		if c.Crash {
			stats.CrashCount++
		}
		if c.Fire {
			stats.FireCount++
		}
		if c.Crash || c.Fire {
			stats.CriticalCount++
		}
		if c.CreatedAt.After(weekAgo) {
			stats.RecentLast7Days++
		}
	}

	stats.ByCategory = make([]model.CategoryCount, 0, len(counts))
	for code, count := range counts {
		stats.ByCategory = append(stats.ByCategory, model.CategoryCount{
			PredictedCategory: code,
			Count:             count,
		})
	}
	sort.Slice(stats.ByCategory, func(i, j int) bool {
		if stats.ByCategory[i].Count != stats.ByCategory[j].Count {
			return stats.ByCategory[i].Count > stats.ByCategory[j].Count
		}
		return stats.ByCategory[i].PredictedCategory < stats.ByCategory[j].PredictedCategory
	})

	return stats
}

// =============================================================================
// CHAT SESSIONS
// =============================================================================

// CreateSession opens a chat session scoped to a complaint and seeds it
// with the mechanic's greeting.
func (st *Store) CreateSession(complaintID int64) (model.ChatSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	complaint, ok := st.complaints[complaintID]
	if !ok {
		return model.ChatSession{}, ErrComplaintNotFound
	}

	now := time.Now().UTC()
	st.nextSessionID++
	session := &model.ChatSession{
		ID:              st.nextSessionID,
		Complaint:       *complaint,
		CustomerName:    complaint.Car.Customer.Name,
		CarDisplay:      complaint.Car.DisplayName,
		CarLicensePlate: complaint.Car.LicensePlate,
		Title:           "Chat about " + complaint.Category().Label,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	st.sessions[session.ID] = session

	st.appendMessageLocked(session, model.RoleAssistant, greetingFor(session))
	return snapshotSession(session), nil
}

// Session returns a session with its message history.
func (st *Store) Session(id int64) (model.ChatSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return model.ChatSession{}, ErrSessionNotFound
	}
	return snapshotSession(session), nil
}

// AppendUserMessage records a user message on an active session and
// returns a snapshot for reply generation.
func (st *Store) AppendUserMessage(sessionID int64, text string) (model.ChatSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[sessionID]
	if !ok {
		return model.ChatSession{}, ErrSessionNotFound
	}
	if !session.IsActive {
		return model.ChatSession{}, ErrSessionClosed
	}

	st.appendMessageLocked(session, model.RoleUser, text)
	return snapshotSession(session), nil
}

// AppendAssistantMessage records the mechanic's full reply after the
// stream completes. A session closed mid-stream still gets the reply,
// matching the real backend's post-stream save.
func (st *Store) AppendAssistantMessage(sessionID int64, text string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	st.appendMessageLocked(session, model.RoleAssistant, text)
	return nil
}

// CloseSession closes an active session.
func (st *Store) CloseSession(id int64) (model.ChatSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return model.ChatSession{}, ErrSessionNotFound
	}
	if !session.IsActive {
		return model.ChatSession{}, ErrSessionClosed
	}

	now := time.Now().UTC()
	session.IsActive = false
	session.ClosedAt = &now
	session.UpdatedAt = now
	return snapshotSession(session), nil
}

// ReopenSession reopens a closed session.
func (st *Store) ReopenSession(id int64) (model.ChatSession, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return model.ChatSession{}, ErrSessionNotFound
	}
	if session.IsActive {
		return model.ChatSession{}, ErrSessionActive
	}

	session.IsActive = true
	session.ClosedAt = nil
	session.UpdatedAt = time.Now().UTC()
	return snapshotSession(session), nil
}

// appendMessageLocked appends a message to a session. Caller holds the
// store lock.
func (st *Store) appendMessageLocked(session *model.ChatSession, role model.Role, text string) {
	now := time.Now().UTC()
	st.nextMessageID++
	session.Messages = append(session.Messages, model.ChatMessage{
		ID:                 st.nextMessageID,
		Session:            session.ID,
		Role:               role,
		Text:               text,
		FormattedTimestamp: now.Format("Jan 02, 2006 15:04"),
		IsFromUser:         role == model.RoleUser,
		IsFromAssistant:    role == model.RoleAssistant,
		CreatedAt:          now,
	})
	session.TotalMessages = len(session.Messages)
	session.UpdatedAt = now
}

// snapshotSession copies a session so handlers can marshal it outside
// the lock.
func snapshotSession(session *model.ChatSession) model.ChatSession {
	copied := *session
	copied.Messages = make([]model.ChatMessage, len(session.Messages))
	copy(copied.Messages, session.Messages)
	if session.ClosedAt != nil {
		closedAt := *session.ClosedAt
		copied.ClosedAt = &closedAt
	}
	return copied
}

// =============================================================================
// SEED DATA
// =============================================================================

// Seed loads a small demo fleet so searches and statistics have
// something to show before the first submission.
func (st *Store) Seed() {
	seeds := []quickSubmitPayload{
		{
			CustomerName:  "Dana Whitfield",
			CustomerEmail: "dana.whitfield@example.com",
			LicensePlate:  "ABC-1234",
			CarMake:       "Honda",
			CarModel:      "Civic",
			CarYear:       2019,
			CarMileage:    48200,
			ComplaintText: "Loud grinding noise from the front brakes when stopping, gets worse downhill.",
		},
		{
			CustomerName:  "Marcus Reed",
			CustomerPhone: "555-0142",
			LicensePlate:  "XYZ-9876",
			CarMake:       "Ford",
			CarModel:      "F-150",
			CarYear:       2017,
			CarMileage:    91500,
			ComplaintText: "Engine stalls at red lights and the check engine light flashes intermittently.",
		},
		{
			CustomerName:  "Priya Nair",
			CustomerEmail: "priya.nair@example.com",
			LicensePlate:  "JKL-4421",
			CarMake:       "Toyota",
			CarModel:      "Corolla",
			CarYear:       2021,
			CarMileage:    23800,
			ComplaintText: "Strong fuel smell in the cabin after filling the tank, worried about a leak.",
			Fire:          true,
		},
	}
	for _, seed := range seeds {
		st.Submit(seed)
	}
}
