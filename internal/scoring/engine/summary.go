package engine

import (
	"fmt"

	"github.com/dotball/dotball/internal/pkg/models"
)

// InningsSummary is a pure snapshot of an innings derived from its
// ledger. Recomputing over the same ledger always yields the same
// summary.
type InningsSummary struct {
	Runs          int                      `json:"runs"`
	Wickets       int                      `json:"wickets"`
	LegalBalls    int                      `json:"legal_balls"`
	Overs         int                      `json:"overs"`
	BallsThisOver int                      `json:"balls_this_over"`
	Extras        map[models.ExtraType]int `json:"extras"`
	RunRate       float64                  `json:"run_rate"`
}

// OversString formats completed overs and the remainder balls of the
// current over, e.g. "0.2" after two legal balls.
func (s InningsSummary) OversString() string {
	return fmt.Sprintf("%d.%d", s.Overs, s.BallsThisOver)
}

// ComputeInningsSummary reduces a ledger into score, wickets, legal
// balls, an extras breakdown and the run rate. ballsPerOver overrides
// the rules value when positive (Super Over).
func ComputeInningsSummary(ledger []models.BallEvent, rules models.RulesConfig, ballsPerOver int) InningsSummary {
	bpo := effectiveBallsPerOver(rules, ballsPerOver)

	summary := InningsSummary{
		Extras: make(map[models.ExtraType]int),
	}

	for _, e := range ledger {
		summary.Runs += RunsFromBall(e)
		if e.Wicket != nil {
			summary.Wickets++
		}
		if BallCounts(e, rules) {
			summary.LegalBalls++
		}
		if e.Extras.Type != models.ExtraNone {
			summary.Extras[e.Extras.Type] += e.Extras.Runs
		}
	}

	if bpo > 0 {
		summary.Overs = summary.LegalBalls / bpo
		summary.BallsThisOver = summary.LegalBalls % bpo
	}
	if summary.LegalBalls > 0 && bpo > 0 {
		oversFloat := float64(summary.LegalBalls) / float64(bpo)
		summary.RunRate = round2(float64(summary.Runs) / oversFloat)
	}

	return summary
}
