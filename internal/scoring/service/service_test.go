package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/pkg/storage"
	"github.com/dotball/dotball/internal/scoring/engine"
)

// fakeStorage is an in-memory MatchStorage for service tests.
type fakeStorage struct {
	matches map[string]*models.Match
}

var _ storage.MatchStorage = (*fakeStorage)(nil)

func newFakeStorage() *fakeStorage {
	return &fakeStorage{matches: make(map[string]*models.Match)}
}

func (f *fakeStorage) CreateMatch(_ context.Context, match *models.Match) error {
	if _, ok := f.matches[match.ID]; ok {
		return fmt.Errorf("match already exists: %s", match.ID)
	}
	copied := *match
	f.matches[match.ID] = &copied
	return nil
}

func (f *fakeStorage) get(matchID string) (*models.Match, error) {
	m, ok := f.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("match not found: %s", matchID)
	}
	return m, nil
}

func (f *fakeStorage) GetMatch(_ context.Context, matchID string) (*models.Match, error) {
	m, err := f.get(matchID)
	if err != nil {
		return nil, err
	}
	// Deep-ish copy so callers can't mutate the stored aggregate.
	copied := *m
	copied.Innings = make([]models.Innings, len(m.Innings))
	for i, in := range m.Innings {
		copied.Innings[i] = in
		copied.Innings[i].Events = append([]models.BallEvent(nil), in.Events...)
	}
	return &copied, nil
}

func (f *fakeStorage) ListMatches(_ context.Context, _ int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeStorage) AddInnings(_ context.Context, matchID string, innings models.Innings) error {
	m, err := f.get(matchID)
	if err != nil {
		return err
	}
	m.Innings = append(m.Innings, innings)
	return nil
}

func (f *fakeStorage) UpdateStatus(_ context.Context, matchID string, status models.MatchStatus) error {
	m, err := f.get(matchID)
	if err != nil {
		return err
	}
	m.Status = status
	return nil
}

func (f *fakeStorage) AppendBallEvent(_ context.Context, matchID string, inningsIdx int, event models.BallEvent) error {
	m, err := f.get(matchID)
	if err != nil {
		return err
	}
	if inningsIdx < 0 || inningsIdx >= len(m.Innings) {
		return fmt.Errorf("innings %d not found in match %s", inningsIdx, matchID)
	}
	m.Innings[inningsIdx].Events = append(m.Innings[inningsIdx].Events, event)
	return nil
}

func (f *fakeStorage) RemoveLastBallEvent(_ context.Context, matchID string, inningsIdx int) (bool, error) {
	m, err := f.get(matchID)
	if err != nil {
		return false, err
	}
	events := m.Innings[inningsIdx].Events
	if len(events) == 0 {
		return false, nil
	}
	m.Innings[inningsIdx].Events = events[:len(events)-1]
	return true, nil
}

func (f *fakeStorage) Close() error { return nil }

func testRules() models.RulesConfig {
	return models.RulesConfig{
		OversPerInnings:    1,
		BallsPerOver:       6,
		WideRuns:           1,
		NoBallRuns:         1,
		WideCountsAsBall:   false,
		NoBallCountsAsBall: false,
	}
}

func xi(prefix string) []string {
	players := make([]string, 4)
	for i := range players {
		players[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return players
}

func setupMatch(t *testing.T) (*Service, *fakeStorage, string) {
	t.Helper()
	store := newFakeStorage()
	svc := NewService(store, nil, nil, time.Minute)

	match, err := svc.CreateMatch(context.Background(), CreateMatchRequest{
		HomeTeamID: "home",
		AwayTeamID: "away",
		HomeXI:     xi("h"),
		AwayXI:     xi("a"),
		Rules:      testRules(),
		StartTime:  time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := svc.StartMatch(context.Background(), match.ID, "home"); err != nil {
		t.Fatalf("StartMatch: %v", err)
	}
	return svc, store, match.ID
}

func delivery(striker, nonStriker string, runs int) models.BallEvent {
	return models.BallEvent{
		StrikerID:    striker,
		NonStrikerID: nonStriker,
		BowlerID:     "a1",
		RunsOffBat:   runs,
	}
}

func TestAppendBall_UpdatesLiveScore(t *testing.T) {
	svc, _, matchID := setupMatch(t)
	ctx := context.Background()

	live, err := svc.AppendBall(ctx, matchID, delivery("h1", "h2", 4))
	if err != nil {
		t.Fatalf("AppendBall: %v", err)
	}
	if live.Summary.Runs != 4 || live.Summary.LegalBalls != 1 {
		t.Errorf("live = %d runs off %d balls, want 4 off 1", live.Summary.Runs, live.Summary.LegalBalls)
	}
	if live.StrikerID != "h1" {
		t.Errorf("striker = %s, want h1 after a boundary", live.StrikerID)
	}
	if live.InningsOver {
		t.Error("innings should not be over after one ball")
	}
}

func TestAppendBall_RejectsInvalidEvent(t *testing.T) {
	svc, _, matchID := setupMatch(t)

	_, err := svc.AppendBall(context.Background(), matchID, models.BallEvent{
		StrikerID:    "h1",
		NonStrikerID: "h2",
		BowlerID:     "a1",
		RunsOffBat:   7,
	})
	if err == nil {
		t.Fatal("expected validation error for 7 runs off the bat")
	}
}

func TestAppendBall_OpensSecondInnings(t *testing.T) {
	svc, store, matchID := setupMatch(t)
	ctx := context.Background()

	// Bowl out the single over.
	for i := 0; i < 6; i++ {
		if _, err := svc.AppendBall(ctx, matchID, delivery("h1", "h2", 0)); err != nil {
			t.Fatalf("AppendBall %d: %v", i, err)
		}
	}

	m, _ := store.GetMatch(ctx, matchID)
	if len(m.Innings) != 2 {
		t.Fatalf("innings count = %d, want 2 after the first innings closed", len(m.Innings))
	}
	if m.Innings[1].BattingTeamID != "away" {
		t.Errorf("second innings batting team = %s, want away", m.Innings[1].BattingTeamID)
	}
	if m.Status != models.StatusInProgress {
		t.Errorf("status = %s, want in_progress", m.Status)
	}
}

func playOver(t *testing.T, svc *Service, matchID, striker, nonStriker, bowler string, runsPerBall []int) {
	t.Helper()
	for i, runs := range runsPerBall {
		event := models.BallEvent{
			StrikerID:    striker,
			NonStrikerID: nonStriker,
			BowlerID:     bowler,
			RunsOffBat:   runs,
		}
		if _, err := svc.AppendBall(context.Background(), matchID, event); err != nil {
			t.Fatalf("AppendBall %d: %v", i, err)
		}
	}
}

func TestAppendBall_CompletesMatchWithWinner(t *testing.T) {
	svc, store, matchID := setupMatch(t)

	playOver(t, svc, matchID, "h1", "h2", "a1", []int{2, 2, 0, 0, 0, 0}) // home 4
	playOver(t, svc, matchID, "a1", "a2", "h1", []int{2, 2, 2, 0, 0, 0}) // away 6, wins

	m, _ := store.GetMatch(context.Background(), matchID)
	if m.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", m.Status)
	}

	card, err := svc.Scorecard(context.Background(), matchID)
	if err != nil {
		t.Fatalf("Scorecard: %v", err)
	}
	if card.Result == nil || card.Result.WinnerTeamID != "away" {
		t.Errorf("result = %+v, want away as winner", card.Result)
	}
}

func TestAppendBall_TieSchedulesSuperOver(t *testing.T) {
	svc, store, matchID := setupMatch(t)

	playOver(t, svc, matchID, "h1", "h2", "a1", []int{2, 2, 0, 0, 0, 0}) // home 4
	playOver(t, svc, matchID, "a1", "a2", "h1", []int{2, 2, 0, 0, 0, 0}) // away 4: tie

	m, _ := store.GetMatch(context.Background(), matchID)
	if m.Status != models.StatusInProgress {
		t.Fatalf("status = %s, want in_progress (super over pending)", m.Status)
	}
	if len(m.Innings) != 3 {
		t.Fatalf("innings count = %d, want 3 (super over opened)", len(m.Innings))
	}

	so := m.Innings[2]
	if !so.IsSuperOver() || so.MaxWickets != 2 {
		t.Errorf("super over limits = %+v, want MaxOvers=1 MaxWickets=2", so)
	}
	// The chasing side bats first in the super over.
	if so.BattingTeamID != "away" {
		t.Errorf("super over batting first = %s, want away", so.BattingTeamID)
	}
}

func TestSuperOver_DecidesMatch(t *testing.T) {
	svc, store, matchID := setupMatch(t)

	playOver(t, svc, matchID, "h1", "h2", "a1", []int{2, 2, 0, 0, 0, 0}) // home 4
	playOver(t, svc, matchID, "a1", "a2", "h1", []int{2, 2, 0, 0, 0, 0}) // tie -> super over, away bats
	playOver(t, svc, matchID, "a1", "a2", "h1", []int{2, 2, 2, 0, 0, 0}) // away 6
	playOver(t, svc, matchID, "h1", "h2", "a1", []int{2, 0, 0, 0, 0, 0}) // home 2: away wins

	m, _ := store.GetMatch(context.Background(), matchID)
	if m.Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed after decisive super over", m.Status)
	}

	card, _ := svc.Scorecard(context.Background(), matchID)
	if card.Result == nil || !card.Result.IsSuperOver {
		t.Fatalf("result should come from the super over pair: %+v", card.Result)
	}
	if card.Result.WinnerTeamID != "away" {
		t.Errorf("winner = %s, want away", card.Result.WinnerTeamID)
	}
}

func TestUndoLastBall(t *testing.T) {
	svc, store, matchID := setupMatch(t)
	ctx := context.Background()

	if _, err := svc.AppendBall(ctx, matchID, delivery("h1", "h2", 4)); err != nil {
		t.Fatalf("AppendBall: %v", err)
	}
	if err := svc.UndoLastBall(ctx, matchID); err != nil {
		t.Fatalf("UndoLastBall: %v", err)
	}

	m, _ := store.GetMatch(ctx, matchID)
	if len(m.Innings[0].Events) != 0 {
		t.Errorf("ledger length = %d, want 0 after undo", len(m.Innings[0].Events))
	}

	if err := svc.UndoLastBall(ctx, matchID); err == nil {
		t.Error("undo on an empty ledger should fail")
	}
}

func TestLiveScore_RecomputesWithoutCache(t *testing.T) {
	svc, _, matchID := setupMatch(t)
	ctx := context.Background()

	if _, err := svc.AppendBall(ctx, matchID, delivery("h1", "h2", 1)); err != nil {
		t.Fatalf("AppendBall: %v", err)
	}

	live, err := svc.LiveScore(ctx, matchID)
	if err != nil {
		t.Fatalf("LiveScore: %v", err)
	}
	if live.Summary.Runs != 1 {
		t.Errorf("runs = %d, want 1", live.Summary.Runs)
	}
	if live.StrikerID != "h2" {
		t.Errorf("striker = %s, want h2 after a single", live.StrikerID)
	}

	// Same ledger, same answer.
	again, _ := svc.LiveScore(ctx, matchID)
	if again.Summary.Runs != live.Summary.Runs || again.Summary.LegalBalls != live.Summary.LegalBalls {
		t.Errorf("live score not stable: %+v vs %+v", again.Summary, live.Summary)
	}
}

func TestScorecard_UsesInningsOrders(t *testing.T) {
	svc, _, matchID := setupMatch(t)
	ctx := context.Background()

	wicketBall := models.BallEvent{
		StrikerID:    "h1",
		NonStrikerID: "h2",
		BowlerID:     "a1",
		Wicket:       &models.WicketInfo{Kind: models.WicketBowled, BatterOutID: "h1"},
	}
	if _, err := svc.AppendBall(ctx, matchID, wicketBall); err != nil {
		t.Fatalf("AppendBall: %v", err)
	}

	card, err := svc.Scorecard(ctx, matchID)
	if err != nil {
		t.Fatalf("Scorecard: %v", err)
	}
	if len(card.Innings) != 1 {
		t.Fatalf("innings cards = %d, want 1", len(card.Innings))
	}

	batting := card.Innings[0].Batting
	if batting[0].PlayerID != "h1" || !batting[0].Out {
		t.Errorf("h1 should be out on the batting card: %+v", batting[0])
	}

	bowling := card.Innings[0].Bowling
	if bowling[0].PlayerID != "a1" || bowling[0].Wickets != 1 {
		t.Errorf("a1 should have the wicket: %+v", bowling[0])
	}
}

func TestLiveScoreSummaryMatchesEngine(t *testing.T) {
	svc, store, matchID := setupMatch(t)
	ctx := context.Background()

	playOver(t, svc, matchID, "h1", "h2", "a1", []int{1, 0, 4})

	m, _ := store.GetMatch(ctx, matchID)
	want := engine.ComputeInningsSummary(m.Innings[0].Events, m.Rules, 0)

	live, _ := svc.LiveScore(ctx, matchID)
	if live.Summary.Runs != want.Runs || live.Summary.LegalBalls != want.LegalBalls {
		t.Errorf("service summary %+v diverges from engine %+v", live.Summary, want)
	}
}
