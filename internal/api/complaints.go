// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// complaints.go - Quick-submit, statistics, and category operations.
package api

import (
	"context"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// MinComplaintLength mirrors the backend's minimum complaint text length.
const MinComplaintLength = 10

// =============================================================================
// QUICK SUBMIT
// =============================================================================

// QuickSubmitRequest is the one-shot complaint intake payload. The
// backend creates or reuses the customer and car records as needed.
type QuickSubmitRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	LicensePlate  string `json:"license_plate"`
	CarMake       string `json:"car_make"`
	CarModel      string `json:"car_model"`
	CarYear       int    `json:"car_year,omitempty"`
	CarMileage    int    `json:"car_mileage,omitempty"`
	ComplaintText string `json:"complaint_text"`
	Crash         bool   `json:"crash"`
	Fire          bool   `json:"fire"`
}

// Validate applies the client-side rules that gate the network call:
// a reachable contact and a complaint long enough to classify.
func (r *QuickSubmitRequest) Validate() error {
	if strings.TrimSpace(r.CustomerEmail) == "" && strings.TrimSpace(r.CustomerPhone) == "" {
		return &ClientError{
			Type:    ErrTypeValidation,
			Message: "Please provide at least an email or phone number so we can reach you.",
		}
	}
	if len(strings.TrimSpace(r.ComplaintText)) < MinComplaintLength {
		return &ClientError{
			Type:    ErrTypeValidation,
			Message: "Please describe the problem in at least 10 characters.",
		}
	}
	return nil
}

// SubmissionResult is the payload of a successful quick submit.
type SubmissionResult struct {
	Customer  model.Customer  `json:"customer"`
	Car       model.Car       `json:"car"`
	Complaint model.Complaint `json:"complaint"`
}

// quickSubmitResponse is the submission envelope.
type quickSubmitResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    SubmissionResult `json:"data"`
}

// SubmitComplaint validates and submits a complaint for classification.
// Validation failures return before any network call is made.
func (c *Client) SubmitComplaint(ctx context.Context, req QuickSubmitRequest) (*SubmissionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp quickSubmitResponse
	if err := c.post(ctx, c.apiURL("/complaints/quick-submit/"), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// =============================================================================
// STATISTICS & CATEGORIES
// =============================================================================

// Statistics fetches fleet-wide complaint statistics.
func (c *Client) Statistics(ctx context.Context) (*model.Statistics, error) {
	var stats model.Statistics
	if err := c.get(ctx, c.apiURL("/complaints/statistics/"), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Categories fetches the category catalog the classifier emits.
func (c *Client) Categories(ctx context.Context) ([]model.CategoryOption, error) {
	var options []model.CategoryOption
	if err := c.get(ctx, c.apiURL("/complaints/categories/"), &options); err != nil {
		return nil, err
	}
	return options, nil
}
