// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Local archive browsing.
//
// Command: history <list|show|search|export|delete|clear>
//
// Examples:
//
//	garagehub history list
//	garagehub history list --limit 50
//	garagehub history show 7
//	garagehub history search "brake"
//	garagehub history export 7 --format html --open
//	garagehub history delete 7 --confirm
//	garagehub history clear --confirm
//
// Everything here operates on the local archive only; nothing talks to
// the backend.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/garagehub-tui/internal/export"
	"github.com/jeranaias/garagehub-tui/internal/storage"
)

// defaultHistoryLimit caps list output unless --limit says otherwise.
const defaultHistoryLimit = 20

// HandleHistoryCommand dispatches the history subcommands.
func HandleHistoryCommand(args *Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	archive, err := requireArchive(cfg)
	if err != nil {
		return err
	}
	defer archive.Close()

	switch args.Subcommand {
	case "", "list":
		return historyList(args, archive)
	case "show":
		return historyShow(args, archive)
	case "search":
		return historySearch(args, archive)
	case "export":
		return historyExport(args, archive, cfg.Chat.ExportFormat)
	case "delete":
		return historyDelete(args, archive)
	case "clear":
		return historyClear(args, archive)
	default:
		return NewUsageError("unknown history action %q (list|show|search|export|delete|clear)", args.Subcommand)
	}
}

func historyList(args *Args, archive *storage.Archive) error {
	limit := args.Parser.FlagIntOrDefault("limit", defaultHistoryLimit)

	return OutputJSON(args.JSON, "history list", func() (interface{}, error) {
		transcripts, err := archive.ListTranscripts(limit)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Println(storage.FormatTranscriptList(transcripts))
		}
		return transcripts, nil
	})
}

func historyShow(args *Args, archive *storage.Archive) error {
	idArg := strings.Join(args.Rest, "")
	if idArg == "" {
		return NewUsageError("history show requires a session id (see history list)")
	}
	id, err := ParseID(idArg)
	if err != nil {
		return NewUsageError("%v", err)
	}

	return OutputJSON(args.JSON, "history show", func() (interface{}, error) {
		st, err := archive.LoadTranscript(id)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			printTranscript(st)
		}
		return st, nil
	})
}

func historySearch(args *Args, archive *storage.Archive) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return NewUsageError("history search requires a query")
	}

	return OutputJSON(args.JSON, "history search", func() (interface{}, error) {
		transcripts, err := archive.SearchTranscripts(query)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			if len(transcripts) == 0 {
				fmt.Printf("No archived chats match %q.\n", query)
			} else {
				fmt.Println(storage.FormatTranscriptList(transcripts))
			}
		}
		return transcripts, nil
	})
}

func historyExport(args *Args, archive *storage.Archive, defaultFormat string) error {
	idArg := ""
	if len(args.Rest) > 0 {
		idArg = args.Rest[0]
	}
	if idArg == "" {
		return NewUsageError("history export requires a session id (see history list)")
	}
	id, err := ParseID(idArg)
	if err != nil {
		return NewUsageError("%v", err)
	}

	format := args.Parser.FlagOrDefault("format", defaultFormat)
	if format == "" {
		format = "markdown"
	}

	return OutputJSON(args.JSON, "history export", func() (interface{}, error) {
		st, err := archive.LoadTranscript(id)
		if err != nil {
			return nil, err
		}

		opts := export.DefaultOptions()
		opts.OutputDir = args.Parser.FlagOrDefault("out", opts.OutputDir)
		opts.OpenAfterExport = args.Parser.BoolFlag("open")

		var path string
		switch format {
		case "markdown", "md":
			path, err = export.ExportMarkdown(st, opts)
		case "html":
			path, err = export.ExportHTML(st, opts)
		case "json":
			path, err = export.ExportJSON(st, opts)
		default:
			return nil, NewUsageError("unknown export format %q (markdown|html|json)", format)
		}
		if err != nil {
			return nil, err
		}

		if !args.JSON {
			fmt.Println(SuccessStyle.Render("Exported:") + " " + path)
		}
		return map[string]string{"path": path, "format": format}, nil
	})
}

func historyDelete(args *Args, archive *storage.Archive) error {
	idArg := strings.Join(args.Rest, "")
	if idArg == "" {
		return NewUsageError("history delete requires a session id")
	}
	id, err := ParseID(idArg)
	if err != nil {
		return NewUsageError("%v", err)
	}

	ok, err := RequireConfirmation(
		fmt.Sprintf("delete archived chat #%d", id),
		ConfirmationOptions{ConfirmFlag: args.Parser.BoolFlag("confirm"), JSONMode: args.JSON},
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(DimStyle.Render("Cancelled."))
		return nil
	}

	return OutputJSON(args.JSON, "history delete", func() (interface{}, error) {
		if err := archive.DeleteTranscript(id); err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Printf("Deleted archived chat #%d.\n", id)
		}
		return map[string]int64{"deleted": id}, nil
	})
}

func historyClear(args *Args, archive *storage.Archive) error {
	ok, err := RequireConfirmation(
		"clear the entire local archive",
		ConfirmationOptions{ConfirmFlag: args.Parser.BoolFlag("confirm"), JSONMode: args.JSON},
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(DimStyle.Render("Cancelled."))
		return nil
	}

	return OutputJSON(args.JSON, "history clear", func() (interface{}, error) {
		if err := archive.Clear(); err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Println("Local archive cleared.")
		}
		return map[string]bool{"cleared": true}, nil
	})
}

// printTranscript renders an archived chat as a flat conversation.
func printTranscript(st *storage.StoredTranscript) {
	fmt.Println()
	fmt.Println(TitleStyle.Render(st.Title))
	fmt.Println(RenderRow("Session", fmt.Sprintf("#%d", st.SessionID)))
	if st.CarDisplay != "" {
		fmt.Println(RenderRow("Vehicle", st.CarDisplay))
	}
	fmt.Println(RenderRow("Updated", st.UpdatedAt.Local().Format("2006-01-02 15:04")))
	fmt.Println()

	for _, msg := range st.Messages {
		var role string
		switch msg.Role {
		case "user":
			role = TitleStyle.Render("You")
		case "assistant":
			role = SuccessStyle.Render("Mechanic")
		default:
			role = DimStyle.Render("System")
		}
		fmt.Printf("%s\n%s\n\n", role, WrapText(msg.Content, GetTerminalWidth()))
	}
}
