// Package health exposes the HTTP surface of the scoring service:
// liveness probes, metrics, and the match scoring API.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dotball/dotball/internal/pkg/health/handlers"
	"github.com/dotball/dotball/internal/scoring/service"
)

func Run(ctx context.Context, addr string, serviceName string, svc *service.Service, readHeaderTimeout time.Duration) {
	handlers.SetScoringService(svc)

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)

	// Metrics endpoint
	mux.HandleFunc("/metrics", handlers.HandleMetrics)

	// Match lifecycle
	mux.HandleFunc("/matches", handlers.HandleMatches)
	mux.HandleFunc("/matches/start", handlers.HandleStartMatch)

	// Scoring
	mux.HandleFunc("/balls", handlers.HandleAppendBall)
	mux.HandleFunc("/balls/undo", handlers.HandleUndoBall)

	// Derived state
	mux.HandleFunc("/score", handlers.HandleScore)
	mux.HandleFunc("/scorecard", handlers.HandleScorecard)

	if readHeaderTimeout <= 0 {
		slog.Error("read_header_timeout must be specified in config")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("HTTP server listening", "service", serviceName, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "service", serviceName, "error", err)
		}
	}()
}

func AddrFor(port int) string {
	if port <= 0 {
		slog.Error("port must be greater than 0")
		os.Exit(1)
	}
	return fmt.Sprintf(":%d", port)
}
