// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search.go - Vehicle lookup from the command line.
//
// Command: search <plate>
//
// Examples:
//
//	garagehub search ABC123
//	garagehub search "AB 12 CD" --json
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/util"
)

// HandleSearchCommand looks a vehicle up by plate and prints its
// complaint history.
func HandleSearchCommand(args *Args) error {
	plate := api.NormalizePlate(args.Query)
	if plate == "" {
		return NewUsageError("Please enter a license plate.")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	return OutputJSON(args.JSON, "search", func() (interface{}, error) {
		ctx, cancel := commandContext()
		defer cancel()

		car, err := client.CarByPlate(ctx, plate)
		if err != nil {
			if api.IsNotFound(err) && !args.JSON {
				fmt.Println(WarnStyle.Render("No vehicle found with that license plate."))
				fmt.Println(DimStyle.Render("  Plates are matched exactly; check for typos."))
				// Already explained; keep the not-found exit code only.
				return nil, Silence(err)
			}
			return nil, err
		}

		history, err := client.ComplaintHistory(ctx, car.ID)
		if err != nil {
			// The car is known; render it without history.
			history = &model.ComplaintHistory{Car: *car, TotalComplaints: car.TotalComplaints}
		}

		if archive := openArchive(cfg, args.Quiet); archive != nil {
			defer archive.Close()
			if err := archive.RecordSearch(car.LicensePlate, car.DisplayName, history.TotalComplaints); err != nil && !args.Quiet {
				StderrPrintln(DimStyle.Render("search not archived: " + err.Error()))
			}
		}

		if !args.JSON {
			printVehicle(car, history, args.Quiet)
		}

		return SearchData{
			Car:        car,
			Total:      history.TotalComplaints,
			Complaints: history.Complaints,
		}, nil
	})
}

func printVehicle(car *model.Car, history *model.ComplaintHistory, quiet bool) {
	if quiet {
		fmt.Printf("%s %s %d\n", car.LicensePlate, car.DisplayName, history.TotalComplaints)
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(car.DisplayName))
	fmt.Println(RenderRow("Plate", car.LicensePlate))
	fmt.Println(RenderRow("Owner", car.Customer.Name))
	if car.Mileage > 0 {
		fmt.Println(RenderRow("Mileage", util.IntToString(car.Mileage)+" mi"))
	}
	fmt.Println(RenderRow("On file", fmt.Sprintf("%d complaint(s)", history.TotalComplaints)))

	if len(history.Complaints) == 0 {
		fmt.Println()
		fmt.Println(DimStyle.Render("  No complaints on file for this vehicle."))
		fmt.Println()
		return
	}

	fmt.Println()
	fmt.Println(RenderSeparator(50))
	for i := range history.Complaints {
		printComplaintLine(&history.Complaints[i])
	}
	fmt.Println()
}

func printComplaintLine(c *model.Complaint) {
	cat := c.Category()
	head := fmt.Sprintf("  #%-5d %s %s  %s", c.ID, cat.Icon, cat.Label, renderConfidence(c))
	if c.Critical() {
		head += "  " + CriticalStyle.Render(" CRITICAL ")
	}
	fmt.Println(head)

	text := strings.TrimSpace(c.ComplaintText)
	fmt.Println("         " + ValueStyle.Render(util.TruncateRunes(text, 100)))

	date := c.FormattedDate
	if date == "" {
		date = c.CreatedAt.Format("2006-01-02")
	}
	fmt.Println("         " + DimStyle.Render(date))
}
