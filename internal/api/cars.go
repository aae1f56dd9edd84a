// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cars.go - Vehicle lookup operations.
package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// NormalizePlate canonicalizes a license plate for lookup: compatibility
// normalization (full-width input from IMEs collapses to ASCII), upper
// case, and collapsed inner whitespace. The backend stores plates upper
// case, so normalized plates compare exactly.
func NormalizePlate(plate string) string {
	plate = norm.NFKC.String(strings.TrimSpace(plate))
	plate = strings.ToUpper(plate)
	return strings.Join(strings.Fields(plate), " ")
}

// CarByPlate looks a vehicle up by license plate. A missing vehicle is
// ErrTypeNotFound; callers render their own not-found text instead of
// the raw error.
func (c *Client) CarByPlate(ctx context.Context, plate string) (*model.Car, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, &ClientError{Type: ErrTypeValidation, Message: "Please enter a license plate."}
	}

	var car model.Car
	endpoint := c.apiURL("/cars/by_license_plate/") + "?plate=" + url.QueryEscape(plate)
	if err := c.get(ctx, endpoint, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// ComplaintHistory fetches a vehicle's complaint history.
func (c *Client) ComplaintHistory(ctx context.Context, carID int64) (*model.ComplaintHistory, error) {
	var history model.ComplaintHistory
	endpoint := c.apiURL("/cars/" + strconv.FormatInt(carID, 10) + "/complaint_history/")
	if err := c.get(ctx, endpoint, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
