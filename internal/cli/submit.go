// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// submit.go - One-shot complaint submission from the command line.
//
// Command: submit
//
// Examples:
//
//	garagehub submit --email jane@example.com --plate ABC123 \
//	    --make Honda --model Civic --year 2019 \
//	    --text "Grinding noise from the front left wheel when braking"
//	garagehub submit --phone 555-0123 --plate XYZ789 --crash \
//	    --text "Rear-ended at a stop light, trunk will not close" --json
package cli

import (
	"fmt"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/model"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// HandleSubmitCommand submits a complaint built from flags.
func HandleSubmitCommand(args *Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	p := args.Parser
	req := api.QuickSubmitRequest{
		CustomerName:  p.FlagOrDefault("name", ""),
		CustomerEmail: p.FlagOrDefault("email", ""),
		CustomerPhone: p.FlagOrDefault("phone", ""),
		LicensePlate:  api.NormalizePlate(p.FlagOrDefault("plate", "")),
		CarMake:       p.FlagOrDefault("make", ""),
		CarModel:      p.FlagOrDefault("model", ""),
		CarYear:       p.FlagIntOrDefault("year", 0),
		CarMileage:    p.FlagIntOrDefault("mileage", 0),
		ComplaintText: p.FlagOrDefault("text", ""),
		Crash:         p.BoolFlag("crash"),
		Fire:          p.BoolFlag("fire"),
	}

	if req.ComplaintText == "" {
		return NewUsageError("submit requires --text with the complaint description")
	}

	return OutputJSON(args.JSON, "submit", func() (interface{}, error) {
		ctx, cancel := commandContext()
		defer cancel()

		result, err := client.SubmitComplaint(ctx, req)
		if err != nil {
			return nil, err
		}

		// Best-effort local receipt; the submission already landed.
		if archive := openArchive(cfg, args.Quiet); archive != nil {
			defer archive.Close()
			receipt := storage.NewReceipt(&result.Complaint, result.Car.LicensePlate)
			if _, err := archive.SaveReceipt(receipt); err != nil && !args.Quiet {
				StderrPrintln(DimStyle.Render("receipt not archived: " + err.Error()))
			}
		}

		if !args.JSON {
			printSubmissionCard(result, args.Quiet)
		}

		return SubmitData{
			ComplaintID: result.Complaint.ID,
			Customer:    result.Customer.Name,
			Vehicle:     result.Car.DisplayName,
			Plate:       result.Car.LicensePlate,
			Category:    result.Complaint.PredictedCategory,
			Confidence:  result.Complaint.PredictionConfidence,
			Critical:    result.Complaint.Critical(),
		}, nil
	})
}

// printSubmissionCard renders the classification the backend returned.
func printSubmissionCard(result *api.SubmissionResult, quiet bool) {
	c := &result.Complaint
	cat := c.Category()

	if quiet {
		fmt.Printf("%d %s %s\n", c.ID, c.PredictedCategory, model.FormatConfidence(c.PredictionConfidence))
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Complaint received"))
	fmt.Println(RenderRow("Ticket", fmt.Sprintf("#%d", c.ID)))
	fmt.Println(RenderRow("Customer", result.Customer.Name))
	fmt.Println(RenderRow("Vehicle", result.Car.DisplayName))
	fmt.Println(RenderRow("Plate", result.Car.LicensePlate))
	fmt.Println(RenderRow("Category", cat.Icon+" "+cat.Label))
	fmt.Println(RenderRow("Confidence", renderConfidence(c)))
	if c.Critical() {
		fmt.Println()
		fmt.Println("  " + CriticalStyle.Render(" CRITICAL ") + " " + WarnStyle.Render(criticalLabel(c)))
	}
	fmt.Println()
}

// renderConfidence colors the confidence by tier.
func renderConfidence(c *model.Complaint) string {
	text := model.FormatConfidence(c.PredictionConfidence)
	switch c.ConfidenceTier() {
	case model.TierHigh:
		return SuccessStyle.Render(text)
	case model.TierMedium:
		return WarnStyle.Render(text)
	default:
		return ErrorStyle.Render(text)
	}
}

func criticalLabel(c *model.Complaint) string {
	switch {
	case c.Crash && c.Fire:
		return "Crash and fire reported. A mechanic will follow up immediately."
	case c.Fire:
		return "Fire reported. A mechanic will follow up immediately."
	case c.Crash:
		return "Crash reported. A mechanic will follow up immediately."
	default:
		return "Flagged critical by the backend."
	}
}
