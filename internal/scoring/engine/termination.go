package engine

import (
	"github.com/dotball/dotball/internal/pkg/models"
)

// EndReason says why an innings must end.
type EndReason string

const (
	EndReasonOversComplete EndReason = "overs_complete"
	EndReasonAllOut        EndReason = "all_out"
)

// InningsEnd is the termination verdict for an innings.
type InningsEnd struct {
	End    bool      `json:"end"`
	Reason EndReason `json:"reason,omitempty"`
}

// InningsLimits carries per-innings overrides. Zero fields fall back to
// the match rules (overs, balls per over) or to the batting-order
// derived wicket limit.
type InningsLimits struct {
	MaxOvers     int
	BallsPerOver int
	MaxWickets   int
}

// LimitsFor extracts the innings' own overrides as evaluator limits.
func LimitsFor(in models.Innings) InningsLimits {
	return InningsLimits{
		MaxOvers:     in.MaxOvers,
		BallsPerOver: in.BallsPerOver,
		MaxWickets:   in.MaxWickets,
	}
}

// ShouldEndInnings decides whether an innings must end, checking
// OVERS_COMPLETE before ALL_OUT. The order is a deliberate tie-break
// for the delivery on which both become true at once.
func ShouldEndInnings(ledger []models.BallEvent, rules models.RulesConfig, battingOrder []string, limits InningsLimits) InningsEnd {
	bpo := effectiveBallsPerOver(rules, limits.BallsPerOver)
	summary := ComputeInningsSummary(ledger, rules, bpo)

	oversLimit := limits.MaxOvers
	if oversLimit <= 0 {
		oversLimit = rules.OversPerInnings
	}
	if oversLimit > 0 && summary.LegalBalls >= oversLimit*bpo {
		return InningsEnd{End: true, Reason: EndReasonOversComplete}
	}

	maxWickets := limits.MaxWickets
	if maxWickets <= 0 {
		if rules.LastManStanding {
			maxWickets = len(battingOrder)
		} else {
			maxWickets = len(battingOrder) - 1
		}
	}
	if maxWickets > 0 && summary.Wickets >= maxWickets {
		return InningsEnd{End: true, Reason: EndReasonAllOut}
	}

	return InningsEnd{}
}
