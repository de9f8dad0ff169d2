// Package engine computes cricket match state from ball-by-ball event
// ledgers. Every function here is pure: it takes a complete ledger plus
// rules by value, performs no I/O, keeps no cache, and may be called
// concurrently from any number of goroutines. Recomputation from
// scratch is the intended cost of correctness.
//
// The engine assumes validated input (see internal/pkg/validation);
// arithmetic edge cases like zero balls return 0 instead of failing.
package engine

import (
	"math"

	"github.com/dotball/dotball/internal/pkg/models"
)

// RunsFromBall returns all runs scored on a delivery: runs off the bat
// plus extras runs.
func RunsFromBall(e models.BallEvent) int {
	return e.RunsOffBat + e.Extras.Runs
}

// BallCounts reports whether a delivery counts toward over progression.
// Wides and no-balls count only when the rules say so; everything else
// always counts.
func BallCounts(e models.BallEvent, rules models.RulesConfig) bool {
	switch e.Extras.Type {
	case models.ExtraWide:
		return rules.WideCountsAsBall
	case models.ExtraNoBall:
		return rules.NoBallCountsAsBall
	default:
		return true
	}
}

// countsAsFaced reports whether the striker faced the delivery for the
// batting card. Byes and leg-byes count as a ball faced; wides and
// no-balls do not. This is a distinct classification from BallCounts,
// which only governs over progression.
func countsAsFaced(e models.BallEvent) bool {
	return e.Extras.Type != models.ExtraWide && e.Extras.Type != models.ExtraNoBall
}

// effectiveBallsPerOver resolves a per-innings override against the
// match rules. Zero means no override.
func effectiveBallsPerOver(rules models.RulesConfig, override int) int {
	if override > 0 {
		return override
	}
	return rules.BallsPerOver
}

// round2 rounds to two decimal places, half up. Rates are never
// negative here, so rounding away from zero is the same thing.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
