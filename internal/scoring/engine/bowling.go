package engine

import (
	"github.com/dotball/dotball/internal/pkg/models"
)

// BowlingEntry is one bowler's line on the scorecard.
type BowlingEntry struct {
	PlayerID      string  `json:"player_id"`
	Balls         int     `json:"balls"`
	Overs         int     `json:"overs"`
	BallsThisOver int     `json:"balls_this_over"`
	Runs          int     `json:"runs"`
	Wickets       int     `json:"wickets"`
	Economy       float64 `json:"economy"`
}

// ComputeBowlingFigures reduces a ledger into per-bowler aggregates,
// one entry per player in the bowling order. ballsPerOver overrides the
// rules value when positive.
//
// Runs conceded include bye and leg-bye extras on the bowler's
// deliveries. Conventional scoring would exclude them; product intent
// is to keep the current behavior, so it stays.
func ComputeBowlingFigures(ledger []models.BallEvent, rules models.RulesConfig, bowlingOrder []string, ballsPerOver int) []BowlingEntry {
	bpo := effectiveBallsPerOver(rules, ballsPerOver)

	entries := make([]BowlingEntry, len(bowlingOrder))
	index := make(map[string]int, len(bowlingOrder))
	for i, id := range bowlingOrder {
		entries[i] = BowlingEntry{PlayerID: id}
		index[id] = i
	}

	for _, e := range ledger {
		i, ok := index[e.BowlerID]
		if !ok {
			continue
		}
		if BallCounts(e, rules) {
			entries[i].Balls++
		}
		entries[i].Runs += RunsFromBall(e)
		if e.Wicket != nil {
			entries[i].Wickets++
		}
	}

	for i := range entries {
		if bpo > 0 {
			entries[i].Overs = entries[i].Balls / bpo
			entries[i].BallsThisOver = entries[i].Balls % bpo
		}
		if entries[i].Balls > 0 && bpo > 0 {
			oversFloat := float64(entries[i].Balls) / float64(bpo)
			entries[i].Economy = round2(float64(entries[i].Runs) / oversFloat)
		}
	}

	return entries
}
