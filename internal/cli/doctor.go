// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Local setup diagnosis.
//
// Command: doctor
//
// Probes, in order: configuration loads, backend answers the health
// endpoint, the local archive opens, and the export directory is
// writable. Each check carries a fix hint; the command exits non-zero
// when any check fails outright.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/garagehub-tui/internal/api"
	"github.com/jeranaias/garagehub-tui/internal/config"
)

// HandleDoctorCommand runs the health checks and prints a report.
func HandleDoctorCommand(args *Args) error {
	checks := runDoctorChecks(args)

	healthy := true
	for _, c := range checks {
		if c.Status == "fail" {
			healthy = false
		}
	}

	err := OutputJSON(args.JSON, "doctor", func() (interface{}, error) {
		if !args.JSON {
			printDoctorReport(checks)
		}
		return DoctorData{Checks: checks, Healthy: healthy}, nil
	})
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("setup has failing checks")
	}
	return nil
}

func runDoctorChecks(args *Args) []DoctorCheck {
	checks := make([]DoctorCheck, 0, 4)

	// Configuration
	cfg, err := loadConfig(args)
	if err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "configuration",
			Status:  "fail",
			Message: err.Error(),
			Fix:     "fix or remove the configuration file (garagehub config path)",
		})
		// Later checks need config; fall back to defaults so the
		// report is still complete.
		cfg = config.Default()
		if args.API != "" {
			cfg.API.BaseURL = args.API
		}
	} else {
		path, _ := config.ConfigPathTOML()
		checks = append(checks, DoctorCheck{
			Name:    "configuration",
			Status:  "pass",
			Message: path,
		})
	}

	// Backend health
	client := newClient(cfg)
	ctx, cancel := commandContext()
	defer cancel()
	if err := client.Health(ctx); err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "backend",
			Status:  "fail",
			Message: cfg.API.BaseURL + ": " + api.UserMessage(err),
			Fix:     "start the garage backend, or point --api at a running one (garagehub demo works offline)",
		})
	} else {
		checks = append(checks, DoctorCheck{
			Name:    "backend",
			Status:  "pass",
			Message: cfg.API.BaseURL,
		})
	}

	// Local archive
	if !cfg.History.Enabled {
		checks = append(checks, DoctorCheck{
			Name:    "archive",
			Status:  "warn",
			Message: "local history is disabled",
			Fix:     "garagehub config set history.enabled true",
		})
	} else if dbPath, err := cfg.HistoryDBPath(); err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "archive",
			Status:  "fail",
			Message: err.Error(),
		})
	} else if archive, err := openArchiveAt(dbPath); err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "archive",
			Status:  "fail",
			Message: dbPath + ": " + err.Error(),
			Fix:     "delete the database file to rebuild it",
		})
	} else {
		archive.Close()
		checks = append(checks, DoctorCheck{
			Name:    "archive",
			Status:  "pass",
			Message: dbPath,
		})
	}

	// Export directory
	if dir, err := cfg.ExportDir(); err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "exports",
			Status:  "fail",
			Message: err.Error(),
		})
	} else if err := checkWritable(dir); err != nil {
		checks = append(checks, DoctorCheck{
			Name:    "exports",
			Status:  "fail",
			Message: dir + ": " + err.Error(),
			Fix:     "garagehub config set chat.export_dir <writable directory>",
		})
	} else {
		checks = append(checks, DoctorCheck{
			Name:    "exports",
			Status:  "pass",
			Message: dir,
		})
	}

	return checks
}

func printDoctorReport(checks []DoctorCheck) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("garagehub doctor"))
	fmt.Println()
	for _, c := range checks {
		fmt.Printf("  %s %-14s %s\n", RenderStatus(c.Status), c.Name, c.Message)
		if c.Fix != "" && c.Status != "pass" {
			fmt.Println("         " + DimStyle.Render("fix: "+c.Fix))
		}
	}
	fmt.Println()
}

// checkWritable verifies a directory exists (creating it if needed)
// and accepts a file write.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".garagehub-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
