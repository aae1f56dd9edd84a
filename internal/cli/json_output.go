// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - The --json envelope.
//
// Every command wraps its data in the same response shape so scripted
// callers parse one format. Human prose moves to stderr in JSON mode;
// stdout carries exactly one JSON document.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// JSONResponse is the envelope every --json command emits.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a successful envelope.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed envelope.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the envelope to stdout, indented.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// OutputJSON runs handler and wraps its result in the envelope when
// jsonMode is set; otherwise the handler's own output stands.
func OutputJSON(jsonMode bool, command string, handler func() (interface{}, error)) error {
	if !jsonMode {
		_, err := handler()
		return err
	}

	data, err := handler()
	if err != nil {
		NewJSONErrorResponse(command, err).Print()
		return err
	}
	return NewJSONResponse(command, data).Print()
}

// StderrPrintln prints prose to stderr, for human messages in JSON mode.
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND DATA SHAPES
// =============================================================================

// SubmitData is the submit command's JSON payload.
type SubmitData struct {
	ComplaintID int64   `json:"complaint_id"`
	Customer    string  `json:"customer"`
	Vehicle     string  `json:"vehicle"`
	Plate       string  `json:"plate"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Critical    bool    `json:"critical"`
}

// SearchData is the search command's JSON payload.
type SearchData struct {
	Car        *model.Car        `json:"car"`
	Total      int               `json:"total_complaints"`
	Complaints []model.Complaint `json:"complaints"`
}

// DoctorCheck is one health probe result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "fail"
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorData is the doctor command's JSON payload.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Healthy bool          `json:"healthy"`
}

// VersionData is the version command's JSON payload.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}
