package engine

import (
	"github.com/dotball/dotball/internal/pkg/models"
)

// StrikeState is the reconstructed "who is at the crease" answer.
//
// There is no persisted striker pointer anywhere; this state only
// exists as a full replay of the ledger against the batting order.
// Callers must always pass the complete ledger; incremental updates
// are not supported.
type StrikeState struct {
	StrikerID    string `json:"striker_id"`
	NonStrikerID string `json:"non_striker_id"`

	// Inconsistent is set when the ledger violates an invariant the
	// replay depends on: a wicket naming a batter who is not at the
	// crease, or deliveries recorded after the final wicket. The
	// returned pair is still the last consistent one, so callers can
	// distinguish "ledger is broken" from "innings legitimately over".
	Inconsistent  bool   `json:"inconsistent,omitempty"`
	Inconsistency string `json:"inconsistency,omitempty"`
}

// CurrentBatters replays the full ledger to determine the current
// striker and non-striker. Replay state is two indices into the
// batting order, a flag for which index is on strike, and a legal-ball
// counter for the current over.
//
// Per event: a wicket brings in the next unused batter at the
// dismissed batter's index and puts the new batter on strike; odd
// total runs swap ends; a completed over swaps ends again. Whether the
// innings has ended is decided by ShouldEndInnings, never here.
func CurrentBatters(ledger []models.BallEvent, battingOrder []string, rules models.RulesConfig, ballsPerOver int) StrikeState {
	if len(battingOrder) < 2 {
		return StrikeState{
			Inconsistent:  true,
			Inconsistency: "batting order needs at least two batters",
		}
	}

	bpo := effectiveBallsPerOver(rules, ballsPerOver)

	idx1, idx2 := 0, 1
	strikerIsIdx1 := true
	ballsThisOver := 0
	exhausted := false

	state := StrikeState{}
	markInconsistent := func(why string) {
		if !state.Inconsistent {
			state.Inconsistent = true
			state.Inconsistency = why
		}
	}

	for _, e := range ledger {
		if exhausted {
			// The final wicket already fell; nothing should follow it.
			markInconsistent("delivery recorded after the final wicket")
			continue
		}

		if e.Wicket != nil {
			out := e.Wicket.BatterOutID
			if out != battingOrder[idx1] && out != battingOrder[idx2] {
				markInconsistent("wicket names a batter not at the crease: " + out)
			}
			next := max(idx1, idx2) + 1
			if next >= len(battingOrder) {
				// No batters left. The pair stays as-is; termination is
				// the evaluator's call.
				exhausted = true
				continue
			}
			if out == battingOrder[idx1] {
				idx1 = next
				strikerIsIdx1 = true
			} else {
				// Covers the dismissed batter at idx2 and, by the same
				// fallback, the ambiguous cases flagged above.
				idx2 = next
				strikerIsIdx1 = false
			}
		} else if RunsFromBall(e)%2 == 1 {
			strikerIsIdx1 = !strikerIsIdx1
		}

		if BallCounts(e, rules) && bpo > 0 {
			ballsThisOver++
			if ballsThisOver == bpo {
				ballsThisOver = 0
				strikerIsIdx1 = !strikerIsIdx1
			}
		}
	}

	if strikerIsIdx1 {
		state.StrikerID = battingOrder[idx1]
		state.NonStrikerID = battingOrder[idx2]
	} else {
		state.StrikerID = battingOrder[idx2]
		state.NonStrikerID = battingOrder[idx1]
	}
	return state
}
