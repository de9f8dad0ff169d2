package validation

import (
	"fmt"

	"github.com/dotball/dotball/internal/pkg/models"
)

// Validator rejects invalid configuration and events at the boundary,
// before anything reaches the scoring engine. The engine itself assumes
// validated input and never re-checks these invariants.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRules checks a match rules configuration.
func (v *Validator) ValidateRules(r models.RulesConfig) error {
	if r.OversPerInnings < 1 {
		return fmt.Errorf("overs per innings must be at least 1, got %d", r.OversPerInnings)
	}

	valid := false
	for _, n := range models.ValidBallsPerOver {
		if r.BallsPerOver == n {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("balls per over must be one of %v, got %d", models.ValidBallsPerOver, r.BallsPerOver)
	}

	if r.WideRuns < 0 {
		return fmt.Errorf("wide runs cannot be negative, got %d", r.WideRuns)
	}
	if r.NoBallRuns < 0 {
		return fmt.Errorf("no-ball runs cannot be negative, got %d", r.NoBallRuns)
	}
	if r.MaxOversPerBowler < 0 {
		return fmt.Errorf("max overs per bowler cannot be negative, got %d", r.MaxOversPerBowler)
	}
	return nil
}

// ValidateBallEvent checks a single delivery before it is appended.
func (v *Validator) ValidateBallEvent(e models.BallEvent) error {
	if e.StrikerID == "" {
		return fmt.Errorf("striker ID cannot be empty")
	}
	if e.NonStrikerID == "" {
		return fmt.Errorf("non-striker ID cannot be empty")
	}
	if e.BowlerID == "" {
		return fmt.Errorf("bowler ID cannot be empty")
	}
	if e.StrikerID == e.NonStrikerID {
		return fmt.Errorf("striker and non-striker cannot be the same player: %s", e.StrikerID)
	}

	if e.RunsOffBat < 0 || e.RunsOffBat > 6 {
		return fmt.Errorf("runs off bat must be between 0 and 6, got %d", e.RunsOffBat)
	}

	switch e.Extras.Type {
	case models.ExtraNone:
		if e.Extras.Runs != 0 {
			return fmt.Errorf("extras runs without an extras type")
		}
	case models.ExtraWide, models.ExtraNoBall, models.ExtraBye, models.ExtraLegBye:
		if e.Extras.Runs < 0 {
			return fmt.Errorf("extras runs cannot be negative, got %d", e.Extras.Runs)
		}
	default:
		return fmt.Errorf("unknown extras type: %q", e.Extras.Type)
	}

	if e.Wicket != nil {
		if e.Wicket.BatterOutID == "" {
			return fmt.Errorf("wicket must name the dismissed batter")
		}
		switch e.Wicket.Kind {
		case models.WicketBowled, models.WicketCaught, models.WicketLBW,
			models.WicketRunOut, models.WicketStumped, models.WicketHitWicket,
			models.WicketRetired:
		default:
			return fmt.Errorf("unknown wicket kind: %q", e.Wicket.Kind)
		}
	}

	return nil
}

// ValidateMatch checks the match aggregate as a whole.
func (v *Validator) ValidateMatch(m *models.Match) error {
	if m == nil {
		return fmt.Errorf("match cannot be nil")
	}
	if m.ID == "" {
		return fmt.Errorf("match ID cannot be empty")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("both team IDs are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("a team cannot play itself: %s", m.HomeTeamID)
	}
	if len(m.HomeXI) > 11 {
		return fmt.Errorf("home XI has %d players, maximum is 11", len(m.HomeXI))
	}
	if len(m.AwayXI) > 11 {
		return fmt.Errorf("away XI has %d players, maximum is 11", len(m.AwayXI))
	}
	if len(m.HomeXI) < 2 || len(m.AwayXI) < 2 {
		return fmt.Errorf("each side needs at least two players")
	}
	if err := v.ValidateRules(m.Rules); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}
	for i := range m.Innings {
		in := &m.Innings[i]
		if m.XIFor(in.BattingTeamID) == nil || m.XIFor(in.BowlingTeamID) == nil {
			return fmt.Errorf("innings %d references a team not in the match", i)
		}
		if in.BattingTeamID == in.BowlingTeamID {
			return fmt.Errorf("innings %d has the same team batting and bowling", i)
		}
	}
	return nil
}
