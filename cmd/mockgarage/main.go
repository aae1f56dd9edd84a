// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs the mock garage backend as a standalone binary.
//
// The TUI's demo command embeds the same server in-process; this binary
// exists for developing against a long-lived backend:
//
//	mockgarage -port 8000 -delay 15ms
//	garagehub --api http://127.0.0.1:8000
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jeranaias/garagehub-tui/internal/server"
)

func main() {
	port := flag.Int("port", server.DefaultPort, "port to listen on (127.0.0.1 only)")
	chunk := flag.Int("chunk", server.DefaultChunkSize, "streaming chunk size in bytes")
	delay := flag.Duration("delay", server.DefaultStreamDelay, "pause between streamed chunks")
	seed := flag.Bool("seed", true, "preload the demo fleet")
	quiet := flag.Bool("quiet", false, "suppress request logging")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger = log.New(io.Discard, "", 0)
	}

	srv := server.NewServer(*port).
		WithChunkSize(*chunk).
		WithStreamDelay(*delay).
		WithLogger(logger)

	if *seed {
		srv.Store().Seed()
	}

	// First signal shuts down gracefully; a stuck shutdown gives up
	// after the drain window.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf("SHUTDOWN_FAILED | error=%v", err)
		}
	}()

	fmt.Printf("mock garage backend listening on http://127.0.0.1:%d (chunk=%dB delay=%s)\n",
		srv.Port(), *chunk, *delay)

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
