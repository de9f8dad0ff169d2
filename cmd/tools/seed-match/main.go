// Seeds a demo match into Postgres and plays a short scripted innings
// through the scoring service. Useful for smoke-testing a fresh
// deployment end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dotball/dotball/internal/pkg/config"
	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/pkg/storage"
	"github.com/dotball/dotball/internal/scoring/service"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/production.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	postgresDSN := cfg.Postgres.DSN
	if envDSN := os.Getenv("POSTGRES_DSN"); envDSN != "" {
		postgresDSN = envDSN
	}
	if postgresDSN == "" {
		log.Fatal("postgres DSN is required: set postgres.dsn in config or POSTGRES_DSN env var")
	}
	pgConfig := cfg.Postgres
	pgConfig.DSN = postgresDSN

	store, err := storage.NewPostgresMatchStorage(&pgConfig)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
	}
	defer store.Close()

	svc := service.NewService(store, nil, nil, cfg.Redis.LiveTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	homeXI := make([]string, 11)
	awayXI := make([]string, 11)
	for i := 0; i < 11; i++ {
		homeXI[i] = fmt.Sprintf("home-p%02d", i+1)
		awayXI[i] = fmt.Sprintf("away-p%02d", i+1)
	}

	match, err := svc.CreateMatch(ctx, service.CreateMatchRequest{
		HomeTeamID: "demo-home",
		AwayTeamID: "demo-away",
		HomeXI:     homeXI,
		AwayXI:     awayXI,
		Rules: models.RulesConfig{
			OversPerInnings:    cfg.Scoring.OversPerInnings,
			BallsPerOver:       cfg.Scoring.BallsPerOver,
			WideRuns:           cfg.Scoring.WideRuns,
			NoBallRuns:         cfg.Scoring.NoBallRuns,
			WideCountsAsBall:   cfg.Scoring.WideCountsAsBall,
			NoBallCountsAsBall: cfg.Scoring.NoBallCountsAsBall,
			LastManStanding:    cfg.Scoring.LastManStanding,
			MaxOversPerBowler:  cfg.Scoring.MaxOversPerBowler,
		},
		StartTime: time.Now().UTC(),
	})
	if err != nil {
		log.Fatalf("Failed to create match: %v", err)
	}
	fmt.Printf("Created match %s\n", match.ID)

	if err := svc.StartMatch(ctx, match.ID, "demo-home"); err != nil {
		log.Fatalf("Failed to start match: %v", err)
	}

	// One scripted over: a single, a boundary, a wide, a wicket, dots.
	balls := []models.BallEvent{
		{StrikerID: homeXI[0], NonStrikerID: homeXI[1], BowlerID: awayXI[10], RunsOffBat: 1},
		{StrikerID: homeXI[1], NonStrikerID: homeXI[0], BowlerID: awayXI[10], RunsOffBat: 4},
		{StrikerID: homeXI[1], NonStrikerID: homeXI[0], BowlerID: awayXI[10], Extras: models.Extras{Type: models.ExtraWide, Runs: 1}},
		{StrikerID: homeXI[1], NonStrikerID: homeXI[0], BowlerID: awayXI[10], Wicket: &models.WicketInfo{Kind: models.WicketBowled, BatterOutID: homeXI[1]}},
		{StrikerID: homeXI[2], NonStrikerID: homeXI[0], BowlerID: awayXI[10]},
		{StrikerID: homeXI[2], NonStrikerID: homeXI[0], BowlerID: awayXI[10]},
		{StrikerID: homeXI[2], NonStrikerID: homeXI[0], BowlerID: awayXI[10]},
	}

	var live *service.LiveScore
	for i, ball := range balls {
		live, err = svc.AppendBall(ctx, match.ID, ball)
		if err != nil {
			log.Fatalf("Failed to append ball %d: %v", i+1, err)
		}
	}

	fmt.Printf("Live: %s %d/%d after %s overs (RR %.2f)\n",
		live.BattingTeamID, live.Summary.Runs, live.Summary.Wickets, live.Overs, live.Summary.RunRate)
	fmt.Printf("On strike: %s, non-striker: %s\n", live.StrikerID, live.NonStrikerID)
	fmt.Println("Done. Query /score and /scorecard with this match_id.")
}
