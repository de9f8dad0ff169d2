package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dotball/dotball/internal/pkg/performance"
)

// HandleScore handles GET /score?match_id=...: the live state of the
// current innings.
func HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	matchID := r.URL.Query().Get("match_id")
	if matchID == "" {
		http.Error(w, "match_id is required", http.StatusBadRequest)
		return
	}

	startTime := time.Now()
	live, err := scoringService.LiveScore(r.Context(), matchID)
	performance.GetTracker().RecordRead(time.Since(startTime), false)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to get live score: %v", err), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(live)
}

// HandleScorecard handles GET /scorecard?match_id=...: full batting and
// bowling cards for every innings.
func HandleScorecard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	matchID := r.URL.Query().Get("match_id")
	if matchID == "" {
		http.Error(w, "match_id is required", http.StatusBadRequest)
		return
	}

	startTime := time.Now()
	card, err := scoringService.Scorecard(r.Context(), matchID)
	performance.GetTracker().RecordRead(time.Since(startTime), false)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to get scorecard: %v", err), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(card)
}
