package validation

import (
	"testing"
	"time"

	"github.com/dotball/dotball/internal/pkg/models"
)

func validEvent() models.BallEvent {
	return models.BallEvent{
		StrikerID:    "bat1",
		NonStrikerID: "bat2",
		BowlerID:     "bowl1",
		RunsOffBat:   1,
	}
}

func TestValidateRules(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		modify  func(*models.RulesConfig)
		wantErr bool
	}{
		{"default rules", func(r *models.RulesConfig) {}, false},
		{"eight ball over", func(r *models.RulesConfig) { r.BallsPerOver = 8 }, false},
		{"zero overs", func(r *models.RulesConfig) { r.OversPerInnings = 0 }, true},
		{"seven ball over", func(r *models.RulesConfig) { r.BallsPerOver = 7 }, true},
		{"negative wide runs", func(r *models.RulesConfig) { r.WideRuns = -1 }, true},
		{"negative no-ball runs", func(r *models.RulesConfig) { r.NoBallRuns = -1 }, true},
		{"negative bowler cap", func(r *models.RulesConfig) { r.MaxOversPerBowler = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := models.DefaultRules()
			tt.modify(&rules)
			err := v.ValidateRules(rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRules() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBallEvent(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		modify  func(*models.BallEvent)
		wantErr bool
	}{
		{"plain single", func(e *models.BallEvent) {}, false},
		{"wide with extra runs", func(e *models.BallEvent) {
			e.RunsOffBat = 0
			e.Extras = models.Extras{Type: models.ExtraWide, Runs: 2}
		}, false},
		{"bowled", func(e *models.BallEvent) {
			e.Wicket = &models.WicketInfo{Kind: models.WicketBowled, BatterOutID: "bat1"}
		}, false},
		{"missing striker", func(e *models.BallEvent) { e.StrikerID = "" }, true},
		{"missing bowler", func(e *models.BallEvent) { e.BowlerID = "" }, true},
		{"same batters", func(e *models.BallEvent) { e.NonStrikerID = "bat1" }, true},
		{"seven off the bat", func(e *models.BallEvent) { e.RunsOffBat = 7 }, true},
		{"negative runs", func(e *models.BallEvent) { e.RunsOffBat = -1 }, true},
		{"extras runs without type", func(e *models.BallEvent) { e.Extras.Runs = 1 }, true},
		{"unknown extras type", func(e *models.BallEvent) {
			e.Extras = models.Extras{Type: "overthrow", Runs: 1}
		}, true},
		{"wicket without batter", func(e *models.BallEvent) {
			e.Wicket = &models.WicketInfo{Kind: models.WicketBowled}
		}, true},
		{"unknown wicket kind", func(e *models.BallEvent) {
			e.Wicket = &models.WicketInfo{Kind: "timed_out", BatterOutID: "bat1"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.modify(&event)
			err := v.ValidateBallEvent(event)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBallEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func validMatch() *models.Match {
	return &models.Match{
		ID:         "alpha|beta|2026-04-12T10:00:00Z",
		HomeTeamID: "alpha",
		AwayTeamID: "beta",
		HomeXI:     []string{"a1", "a2", "a3"},
		AwayXI:     []string{"b1", "b2", "b3"},
		Rules:      models.DefaultRules(),
		Status:     models.StatusSetup,
		StartTime:  time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestValidateMatch(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		modify  func(*models.Match)
		wantErr bool
	}{
		{"valid match", func(m *models.Match) {}, false},
		{"empty ID", func(m *models.Match) { m.ID = "" }, true},
		{"missing away team", func(m *models.Match) { m.AwayTeamID = "" }, true},
		{"team plays itself", func(m *models.Match) { m.AwayTeamID = "alpha" }, true},
		{"single player side", func(m *models.Match) { m.HomeXI = []string{"a1"} }, true},
		{"oversized XI", func(m *models.Match) {
			m.HomeXI = make([]string, 12)
			for i := range m.HomeXI {
				m.HomeXI[i] = "p"
			}
		}, true},
		{"bad rules", func(m *models.Match) { m.Rules.BallsPerOver = 3 }, true},
		{"innings with unknown team", func(m *models.Match) {
			m.Innings = []models.Innings{{BattingTeamID: "gamma", BowlingTeamID: "beta"}}
		}, true},
		{"innings batting itself", func(m *models.Match) {
			m.Innings = []models.Innings{{BattingTeamID: "alpha", BowlingTeamID: "alpha"}}
		}, true},
		{"valid innings", func(m *models.Match) {
			m.Innings = []models.Innings{{BattingTeamID: "alpha", BowlingTeamID: "beta"}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := validMatch()
			tt.modify(match)
			err := v.ValidateMatch(match)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := v.ValidateMatch(nil); err == nil {
		t.Error("nil match should be rejected")
	}
}
