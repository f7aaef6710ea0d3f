// Command crawlview serves a directory of analysis result documents over
// HTTP: an index page, a JSON API and rendered chart dashboards.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magatfairy/crawlstats/internal/version"
	"github.com/magatfairy/crawlstats/internal/viewer"
)

var (
	dir         = flag.String("dir", "analysis_output", "directory of analysis results to serve")
	listen      = flag.String("listen", ":8080", "listen address")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if _, err := os.Stat(*dir); err != nil {
		log.Fatalf("results directory: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := viewer.NewServer(*dir, nil, nil).ServeMux()
	server := &http.Server{
		Addr:    *listen,
		Handler: viewer.LoggingMiddleware(mux),
	}

	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("serving %s on %s", *dir, *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("Graceful shutdown complete")
}
