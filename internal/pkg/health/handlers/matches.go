package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/scoring/service"
)

const defaultMatchLimit = 50

// HandleMatches handles /matches: GET lists stored matches (without
// ledgers), POST creates a new match in setup state.
func HandleMatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handleListMatches(w, r)
	case http.MethodPost:
		handleCreateMatch(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleListMatches(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	limit := defaultMatchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	matches, err := scoringService.ListMatches(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list matches", "error", err)
		http.Error(w, fmt.Sprintf("failed to list matches: %v", err), http.StatusInternalServerError)
		return
	}

	duration := time.Since(startTime)
	w.Header().Set("X-Query-Duration", duration.String())
	w.Header().Set("X-Matches-Count", fmt.Sprintf("%d", len(matches)))

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"matches": matches,
		"meta": map[string]interface{}{
			"count":    len(matches),
			"duration": duration.String(),
		},
	}); err != nil {
		slog.Error("Failed to encode matches", "error", err)
	}
}

type createMatchRequest struct {
	HomeTeamID string             `json:"home_team_id"`
	AwayTeamID string             `json:"away_team_id"`
	HomeXI     []string           `json:"home_xi"`
	AwayXI     []string           `json:"away_xi"`
	Rules      models.RulesConfig `json:"rules"`
	StartTime  time.Time          `json:"start_time"`
}

func handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.StartTime.IsZero() {
		req.StartTime = time.Now().UTC()
	}
	if req.Rules.OversPerInnings == 0 {
		req.Rules = models.DefaultRules()
	}

	match, err := scoringService.CreateMatch(r.Context(), service.CreateMatchRequest{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeXI:     req.HomeXI,
		AwayXI:     req.AwayXI,
		Rules:      req.Rules,
		StartTime:  req.StartTime,
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to create match: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(match)
}

// HandleStartMatch handles POST /matches/start: opens the first innings.
func HandleStartMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if scoringService == nil {
		http.Error(w, "service not ready", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		MatchID          string `json:"match_id"`
		BattingFirstTeam string `json:"batting_first_team_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := scoringService.StartMatch(r.Context(), req.MatchID, req.BattingFirstTeam); err != nil {
		http.Error(w, fmt.Sprintf("failed to start match: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "started", "match_id": req.MatchID})
}
