package engine

import (
	"fmt"

	"github.com/dotball/dotball/internal/pkg/models"
)

// MatchResult is the resolver's verdict over a pair of innings.
type MatchResult struct {
	Message      string `json:"message"`
	IsTie        bool   `json:"is_tie"`
	IsSuperOver  bool   `json:"is_super_over"`
	WinnerTeamID string `json:"winner_team_id,omitempty"`

	// NextBattingTeamID is set on a tie: the side that bowled first in
	// the resolved pair bats first in the next Super Over.
	NextBattingTeamID string `json:"next_batting_team_id,omitempty"`
}

// ResolveMatchResult decides a winner, a tie, or the need for another
// Super Over from the ordered innings list.
//
// Pairing rule: with fewer than four innings, or when the most recent
// innings is not a Super Over, the pair is (innings[0], innings[1]).
// Otherwise the most recent Super Over pair is resolved; earlier Super
// Overs are already settled as ties and ignored.
//
// A chase win is reported by wicket margin against battingSideSize-1,
// not against a Super Over's own 2-wicket cap. Known limitation,
// preserved.
func ResolveMatchResult(innings []models.Innings, rules models.RulesConfig, battingSideSize int) MatchResult {
	if len(innings) < 2 {
		return MatchResult{Message: "match result unavailable: fewer than two innings"}
	}

	first, second := innings[0], innings[1]
	superOver := false
	if len(innings) >= 4 && innings[len(innings)-1].IsSuperOver() {
		first, second = innings[len(innings)-2], innings[len(innings)-1]
		superOver = true
	}

	firstSummary := ComputeInningsSummary(first.Events, rules, first.BallsPerOver)
	secondSummary := ComputeInningsSummary(second.Events, rules, second.BallsPerOver)

	switch {
	case secondSummary.Runs > firstSummary.Runs:
		maxWickets := battingSideSize - 1
		margin := maxWickets - secondSummary.Wickets
		return MatchResult{
			Message:      fmt.Sprintf("%s won by %d wickets", second.BattingTeamID, margin),
			IsSuperOver:  superOver,
			WinnerTeamID: second.BattingTeamID,
		}
	case firstSummary.Runs > secondSummary.Runs:
		margin := firstSummary.Runs - secondSummary.Runs
		return MatchResult{
			Message:      fmt.Sprintf("%s won by %d runs", first.BattingTeamID, margin),
			IsSuperOver:  superOver,
			WinnerTeamID: first.BattingTeamID,
		}
	default:
		return MatchResult{
			Message:           "match tied, super over required",
			IsTie:             true,
			IsSuperOver:       superOver,
			NextBattingTeamID: second.BattingTeamID,
		}
	}
}
