// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stats.go - Fleet statistics from the command line.
//
// Command: stats
//
// Examples:
//
//	garagehub stats
//	garagehub stats --json
package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/model"
)

// statsBarWidth is the width of the ASCII bars in the breakdown.
const statsBarWidth = 30

// HandleStatsCommand fetches and prints fleet-wide statistics.
func HandleStatsCommand(args *Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	return OutputJSON(args.JSON, "stats", func() (interface{}, error) {
		ctx, cancel := commandContext()
		defer cancel()

		stats, err := client.Statistics(ctx)
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			printStats(stats, args.Quiet)
		}
		return stats, nil
	})
}

func printStats(stats *model.Statistics, quiet bool) {
	if quiet {
		fmt.Printf("%d total %d critical %d recent\n",
			stats.TotalComplaints, stats.CriticalCount, stats.RecentLast7Days)
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Complaint statistics"))
	fmt.Println(RenderRow("Total", fmt.Sprintf("%d", stats.TotalComplaints)))
	fmt.Println(RenderRow("Critical", fmt.Sprintf("%d (%d crash, %d fire)",
		stats.CriticalCount, stats.CrashCount, stats.FireCount)))
	fmt.Println(RenderRow("Last 7 days", fmt.Sprintf("%d", stats.RecentLast7Days)))

	if len(stats.ByCategory) == 0 {
		fmt.Println()
		fmt.Println(DimStyle.Render("  No complaints on file yet."))
		fmt.Println()
		return
	}

	// Largest category first; its bar sets the scale.
	byCount := make([]model.CategoryCount, len(stats.ByCategory))
	copy(byCount, stats.ByCategory)
	sort.Slice(byCount, func(i, j int) bool { return byCount[i].Count > byCount[j].Count })
	max := byCount[0].Count

	fmt.Println()
	for _, row := range byCount {
		cat := model.CategoryByCode(row.PredictedCategory)
		width := 0
		if max > 0 {
			width = row.Count * statsBarWidth / max
		}
		if width == 0 && row.Count > 0 {
			width = 1
		}
		bar := strings.Repeat("█", width)
		fmt.Printf("  %-14s %s %d\n", cat.Label, SuccessStyle.Render(bar), row.Count)
	}
	fmt.Println()
}
