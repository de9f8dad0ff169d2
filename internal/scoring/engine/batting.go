package engine

import (
	"github.com/dotball/dotball/internal/pkg/models"
)

// BattingEntry is one batter's line on the scorecard.
type BattingEntry struct {
	PlayerID   string  `json:"player_id"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	Out        bool    `json:"out"`
	Dismissal  string  `json:"dismissal,omitempty"`
}

// ComputeBattingCard reduces a ledger into per-batter aggregates, one
// entry per player in the batting order. Players who never faced a
// ball get a zeroed entry.
func ComputeBattingCard(ledger []models.BallEvent, battingOrder []string) []BattingEntry {
	entries := make([]BattingEntry, len(battingOrder))
	index := make(map[string]int, len(battingOrder))
	for i, id := range battingOrder {
		entries[i] = BattingEntry{PlayerID: id}
		index[id] = i
	}

	for _, e := range ledger {
		if i, ok := index[e.StrikerID]; ok {
			entries[i].Runs += e.RunsOffBat
			if countsAsFaced(e) {
				entries[i].Balls++
			}
			switch e.RunsOffBat {
			case 4:
				entries[i].Fours++
			case 6:
				entries[i].Sixes++
			}
		}
		if e.Wicket != nil {
			if i, ok := index[e.Wicket.BatterOutID]; ok {
				entries[i].Out = true
				entries[i].Dismissal = dismissalText(e.Wicket)
			}
		}
	}

	for i := range entries {
		if entries[i].Balls > 0 {
			entries[i].StrikeRate = round2(float64(entries[i].Runs) / float64(entries[i].Balls) * 100)
		}
	}

	return entries
}

// dismissalText formats the scorecard dismissal line. Fielder names are
// resolved by the display layer; "?" marks the substitution point.
func dismissalText(w *models.WicketInfo) string {
	switch w.Kind {
	case models.WicketBowled:
		return "b"
	case models.WicketCaught:
		return "c ? b"
	case models.WicketLBW:
		return "lbw b"
	case models.WicketRunOut:
		if w.FielderID != "" {
			return "run out (?)"
		}
		return "run out"
	case models.WicketStumped:
		if w.FielderID != "" {
			return "st ? b"
		}
		return "st b"
	case models.WicketHitWicket:
		return "hit wicket b"
	case models.WicketRetired:
		return "retired"
	}
	return string(w.Kind)
}
