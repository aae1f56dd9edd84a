// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// complaint.go - Complaint, Car, and Customer wire types.
package model

import "time"

// =============================================================================
// CUSTOMER TYPE
// =============================================================================

// Customer is the owner of record for a car. Read-only to the client.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// HasContact reports whether the customer has any way to be reached.
func (c Customer) HasContact() bool {
	return c.Email != "" || c.Phone != ""
}

// =============================================================================
// CAR TYPE
// =============================================================================

// Car is a registered vehicle. The backend normalizes license plates to
// uppercase on write, so LicensePlate is always uppercase here.
type Car struct {
	ID              int64     `json:"id"`
	Customer        Customer  `json:"customer"`
	LicensePlate    string    `json:"license_plate"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	VIN             string    `json:"vin"`
	Color           string    `json:"color"`
	Mileage         int       `json:"mileage"`
	DisplayName     string    `json:"display_name"`
	TotalComplaints int       `json:"total_complaints"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// =============================================================================
// COMPLAINT TYPE
// =============================================================================

// Complaint is a classified vehicle complaint. Created by the backend on
// submission; read-only to the client thereafter.
type Complaint struct {
	ID                   int64     `json:"id"`
	Car                  Car       `json:"car"`
	CustomerName         string    `json:"customer_name"`
	CarDisplayName       string    `json:"car_display_name"`
	ComplaintText        string    `json:"complaint_text"`
	CleanedText          string    `json:"cleaned_text"`
	PredictedCategory    string    `json:"predicted_category"`
	PredictionConfidence float64   `json:"prediction_confidence"`
	CategoryDisplay      string    `json:"category_display"`
	Crash                bool      `json:"crash"`
	Fire                 bool      `json:"fire"`
	IsCritical           bool      `json:"is_critical"`
	Analysis             string    `json:"analysis"`
	FormattedDate        string    `json:"formatted_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Category returns the catalog entry for the complaint's predicted
// category. The backend's category_display label wins when present.
func (c *Complaint) Category() Category {
	cat := CategoryByCode(c.PredictedCategory)
	if c.CategoryDisplay != "" {
		cat.Label = c.CategoryDisplay
	}
	return cat
}

// ConfidenceTier buckets the prediction confidence for display.
func (c *Complaint) ConfidenceTier() ConfidenceTier {
	return TierFor(c.PredictionConfidence)
}

// Critical reports whether the complaint involves a crash or fire.
// Mirrors the backend's is_critical so the client renders consistently
// even against older backends that omit the field.
func (c *Complaint) Critical() bool {
	return c.IsCritical || c.Crash || c.Fire
}

// =============================================================================
// AGGREGATE TYPES
// =============================================================================

// ComplaintHistory is the response of the per-car history lookup.
type ComplaintHistory struct {
	Car             Car         `json:"car"`
	TotalComplaints int         `json:"total_complaints"`
	Complaints      []Complaint `json:"complaints"`
}

// CategoryCount is one row of the statistics breakdown.
type CategoryCount struct {
	PredictedCategory string `json:"predicted_category"`
	Count             int    `json:"count"`
}

// Statistics is the fleet-wide complaint statistics response.
type Statistics struct {
	TotalComplaints int             `json:"total_complaints"`
	ByCategory      []CategoryCount `json:"by_category"`
	CriticalCount   int             `json:"critical_complaints"`
	CrashCount      int             `json:"crash_complaints"`
	FireCount       int             `json:"fire_complaints"`
	RecentLast7Days int             `json:"recent_complaints_7days"`
}

// CategoryOption is one entry of the category catalog endpoint.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
