package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/pkg/performance"
)

type appendBallRequest struct {
	MatchID string           `json:"match_id"`
	Event   models.BallEvent `json:"event"`
}

// HandleAppendBall handles POST /balls: appends one delivery to the
// current innings and returns the fresh live score.
func HandleAppendBall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	var req appendBallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.MatchID == "" {
		http.Error(w, "match_id is required", http.StatusBadRequest)
		return
	}

	startTime := time.Now()
	live, err := scoringService.AppendBall(r.Context(), req.MatchID, req.Event)
	duration := time.Since(startTime)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to append ball: %v", err), http.StatusBadRequest)
		return
	}
	performance.GetTracker().RecordAppend(duration, 0, 0, req.Event.Wicket != nil)

	slog.Info("Ball appended",
		"match_id", req.MatchID,
		"score", fmt.Sprintf("%d/%d", live.Summary.Runs, live.Summary.Wickets),
		"overs", live.Overs,
		"duration", duration)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(live)
}

// HandleUndoBall handles POST /balls/undo: removes the most recent
// delivery from the current innings.
func HandleUndoBall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		MatchID string `json:"match_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.MatchID == "" {
		http.Error(w, "match_id is required", http.StatusBadRequest)
		return
	}

	if err := scoringService.UndoLastBall(r.Context(), req.MatchID); err != nil {
		http.Error(w, fmt.Sprintf("failed to undo: %v", err), http.StatusBadRequest)
		return
	}
	performance.GetTracker().RecordUndo()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "undone", "match_id": req.MatchID})
}
