package engine

import (
	"github.com/dotball/dotball/internal/pkg/models"
)

// Test fixture helpers. Batters A..K, bowler X unless stated.

func t20Rules() models.RulesConfig {
	return models.RulesConfig{
		OversPerInnings:    20,
		BallsPerOver:       6,
		WideRuns:           1,
		NoBallRuns:         1,
		WideCountsAsBall:   false,
		NoBallCountsAsBall: false,
	}
}

func bat(striker string, runs int) models.BallEvent {
	return models.BallEvent{StrikerID: striker, BowlerID: "X", RunsOffBat: runs}
}

func extra(striker string, typ models.ExtraType, runs int) models.BallEvent {
	return models.BallEvent{StrikerID: striker, BowlerID: "X", Extras: models.Extras{Type: typ, Runs: runs}}
}

func wicket(striker, out string, kind models.WicketKind) models.BallEvent {
	return models.BallEvent{
		StrikerID: striker,
		BowlerID:  "X",
		Wicket:    &models.WicketInfo{Kind: kind, BatterOutID: out},
	}
}

func dots(striker string, n int) []models.BallEvent {
	events := make([]models.BallEvent, n)
	for i := range events {
		events[i] = bat(striker, 0)
	}
	return events
}
