// Package service is the read-modify-write boundary around the scoring
// engine: it loads match snapshots from storage, appends or undoes
// deliveries, invokes the pure engine over the updated ledger, and
// pushes the derived state to the cache and the Telegram notifier.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/pkg/storage"
	"github.com/dotball/dotball/internal/pkg/validation"
	"github.com/dotball/dotball/internal/scoring/engine"
)

// Service coordinates scoring operations for stored matches.
//
// Appends and undos for one match are serialized: in-process via a
// per-match mutex, cross-process via the storage layer's row lock.
// The engine only ever sees complete ledgers, so this is the whole
// concurrency discipline.
type Service struct {
	store     storage.MatchStorage
	cache     *storage.RedisClient // optional
	notifier  *Notifier            // optional
	validator *validation.Validator
	liveTTL   time.Duration

	mu         sync.Mutex
	matchLocks map[string]*sync.Mutex
}

func NewService(store storage.MatchStorage, cache *storage.RedisClient, notifier *Notifier, liveTTL time.Duration) *Service {
	return &Service{
		store:      store,
		cache:      cache,
		notifier:   notifier,
		validator:  validation.NewValidator(),
		liveTTL:    liveTTL,
		matchLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockMatch(matchID string) func() {
	s.mu.Lock()
	lock, ok := s.matchLocks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		s.matchLocks[matchID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// LiveScore is the derived state of the match's current innings.
type LiveScore struct {
	MatchID       string                `json:"match_id"`
	Status        models.MatchStatus    `json:"status"`
	InningsIndex  int                   `json:"innings_index"`
	BattingTeamID string                `json:"batting_team_id"`
	BowlingTeamID string                `json:"bowling_team_id"`
	Summary       engine.InningsSummary `json:"summary"`
	Overs         string                `json:"overs"`
	StrikerID     string                `json:"striker_id"`
	NonStrikerID  string                `json:"non_striker_id"`
	Inconsistent  bool                  `json:"ledger_inconsistent,omitempty"`
	InningsOver   bool                  `json:"innings_over"`
	EndReason     engine.EndReason      `json:"end_reason,omitempty"`
	Result        *engine.MatchResult   `json:"result,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InningsCard is one innings' full scorecard.
type InningsCard struct {
	BattingTeamID string                `json:"batting_team_id"`
	BowlingTeamID string                `json:"bowling_team_id"`
	SuperOver     bool                  `json:"super_over,omitempty"`
	Summary       engine.InningsSummary `json:"summary"`
	Batting       []engine.BattingEntry `json:"batting"`
	Bowling       []engine.BowlingEntry `json:"bowling"`
}

// Scorecard is the full match scorecard, one card per innings.
type Scorecard struct {
	MatchID string        `json:"match_id"`
	Status  models.MatchStatus `json:"status"`
	Innings []InningsCard `json:"innings"`
	Result  *engine.MatchResult `json:"result,omitempty"`
}

// CreateMatchRequest carries everything needed to set up a match.
type CreateMatchRequest struct {
	HomeTeamID string
	AwayTeamID string
	HomeXI     []string
	AwayXI     []string
	Rules      models.RulesConfig
	StartTime  time.Time
}

// CreateMatch validates and persists a new match in Setup state.
func (s *Service) CreateMatch(ctx context.Context, req CreateMatchRequest) (*models.Match, error) {
	now := time.Now().UTC()
	match := &models.Match{
		ID:         models.CanonicalMatchID(req.HomeTeamID, req.AwayTeamID, req.StartTime),
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeXI:     req.HomeXI,
		AwayXI:     req.AwayXI,
		Rules:      req.Rules,
		Status:     models.StatusSetup,
		StartTime:  req.StartTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.validator.ValidateMatch(match); err != nil {
		return nil, fmt.Errorf("invalid match: %w", err)
	}
	if err := s.store.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	slog.Info("Match created", "match_id", match.ID)
	return match, nil
}

// StartMatch opens the first innings and moves the match in progress.
// battingFirstTeamID picks who bats, usually from the toss.
func (s *Service) StartMatch(ctx context.Context, matchID, battingFirstTeamID string) error {
	unlock := s.lockMatch(matchID)
	defer unlock()

	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Status != models.StatusSetup {
		return fmt.Errorf("match %s already started (status %s)", matchID, match.Status)
	}
	if match.XIFor(battingFirstTeamID) == nil {
		return fmt.Errorf("team %s is not part of match %s", battingFirstTeamID, matchID)
	}

	bowling := match.AwayTeamID
	if battingFirstTeamID == match.AwayTeamID {
		bowling = match.HomeTeamID
	}

	innings := models.Innings{BattingTeamID: battingFirstTeamID, BowlingTeamID: bowling}
	if err := s.store.AddInnings(ctx, matchID, innings); err != nil {
		return err
	}
	if err := s.store.UpdateStatus(ctx, matchID, models.StatusInProgress); err != nil {
		return err
	}

	slog.Info("Match started", "match_id", matchID, "batting_first", battingFirstTeamID)
	return nil
}

// AppendBall appends one delivery to the current innings, recomputes
// derived state, advances the match lifecycle when the innings or the
// match ends, and returns the fresh live score.
func (s *Service) AppendBall(ctx context.Context, matchID string, event models.BallEvent) (*LiveScore, error) {
	unlock := s.lockMatch(matchID)
	defer unlock()

	if err := s.validator.ValidateBallEvent(event); err != nil {
		return nil, fmt.Errorf("invalid ball event: %w", err)
	}

	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.StatusInProgress {
		return nil, fmt.Errorf("match %s is not in progress (status %s)", matchID, match.Status)
	}
	innings := match.CurrentInnings()
	if innings == nil {
		return nil, fmt.Errorf("match %s has no innings", matchID)
	}

	inningsIdx := len(match.Innings) - 1
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.ID == "" {
		event.ID = fmt.Sprintf("%s-%d-%d", matchID, inningsIdx, len(innings.Events)+1)
	}

	if err := s.store.AppendBallEvent(ctx, matchID, inningsIdx, event); err != nil {
		return nil, err
	}
	innings.Events = append(innings.Events, event)

	live := s.computeLive(match)

	if event.Wicket != nil {
		s.notifier.QueueWicket(match, live, event)
	}

	if live.InningsOver {
		if err := s.advanceMatch(ctx, match, live); err != nil {
			return nil, err
		}
	}

	s.cacheLive(ctx, live)
	return live, nil
}

// advanceMatch reacts to a completed innings: opens the next innings,
// schedules a Super Over on a tie, or completes the match.
func (s *Service) advanceMatch(ctx context.Context, match *models.Match, live *LiveScore) error {
	current := match.CurrentInnings()
	s.notifier.QueueInningsEnd(match, live)

	// An odd innings count means the pair is still open: the other
	// side bats next under the same limits.
	if len(match.Innings)%2 == 1 {
		next := models.Innings{
			BattingTeamID: current.BowlingTeamID,
			BowlingTeamID: current.BattingTeamID,
			MaxOvers:      current.MaxOvers,
			BallsPerOver:  current.BallsPerOver,
			MaxWickets:    current.MaxWickets,
		}
		return s.store.AddInnings(ctx, match.ID, next)
	}

	battingSideSize := len(match.XIFor(current.BattingTeamID))
	result := engine.ResolveMatchResult(match.Innings, match.Rules, battingSideSize)
	live.Result = &result

	if !result.IsTie {
		s.notifier.QueueResult(match, &result)
		if err := s.store.UpdateStatus(ctx, match.ID, models.StatusCompleted); err != nil {
			return err
		}
		live.Status = models.StatusCompleted
		slog.Info("Match completed", "match_id", match.ID, "result", result.Message)
		return nil
	}

	// Tie: schedule a Super Over, batting-first side alternated by the
	// resolver.
	s.notifier.QueueResult(match, &result)
	bowling := match.AwayTeamID
	if result.NextBattingTeamID == match.AwayTeamID {
		bowling = match.HomeTeamID
	}
	superOver := models.Innings{
		BattingTeamID: result.NextBattingTeamID,
		BowlingTeamID: bowling,
		MaxOvers:      1,
		MaxWickets:    2,
	}
	slog.Info("Super over scheduled", "match_id", match.ID, "batting_first", superOver.BattingTeamID)
	return s.store.AddInnings(ctx, match.ID, superOver)
}

// UndoLastBall removes the most recent delivery of the current innings.
func (s *Service) UndoLastBall(ctx context.Context, matchID string) error {
	unlock := s.lockMatch(matchID)
	defer unlock()

	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if len(match.Innings) == 0 {
		return fmt.Errorf("match %s has no innings", matchID)
	}

	removed, err := s.store.RemoveLastBallEvent(ctx, matchID, len(match.Innings)-1)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("nothing to undo in match %s", matchID)
	}

	if s.cache != nil {
		if err := s.cache.DeleteLiveScore(ctx, matchID); err != nil {
			slog.Warn("Failed to invalidate live score cache", "match_id", matchID, "error", err)
		}
	}
	return nil
}

// LiveScore returns the derived state of the current innings, from the
// cache when fresh enough.
func (s *Service) LiveScore(ctx context.Context, matchID string) (*LiveScore, error) {
	if s.cache != nil {
		var cached LiveScore
		hit, err := s.cache.GetLiveScore(ctx, matchID, &cached)
		if err != nil {
			slog.Warn("Live score cache read failed", "match_id", matchID, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	live := s.computeLive(match)
	s.cacheLive(ctx, live)
	return live, nil
}

// Scorecard computes the full scorecard for every innings.
func (s *Service) Scorecard(ctx context.Context, matchID string) (*Scorecard, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	card := &Scorecard{MatchID: match.ID, Status: match.Status}
	for i := range match.Innings {
		in := &match.Innings[i]
		card.Innings = append(card.Innings, InningsCard{
			BattingTeamID: in.BattingTeamID,
			BowlingTeamID: in.BowlingTeamID,
			SuperOver:     in.IsSuperOver(),
			Summary:       engine.ComputeInningsSummary(in.Events, match.Rules, in.BallsPerOver),
			Batting:       engine.ComputeBattingCard(in.Events, s.battingOrder(match, in)),
			Bowling:       engine.ComputeBowlingFigures(in.Events, match.Rules, match.XIFor(in.BowlingTeamID), in.BallsPerOver),
		})
	}

	if len(match.Innings) >= 2 {
		first := &match.Innings[0]
		result := engine.ResolveMatchResult(match.Innings, match.Rules, len(match.XIFor(first.BattingTeamID)))
		if match.Status == models.StatusCompleted || result.IsTie {
			card.Result = &result
		}
	}

	return card, nil
}

// ListMatches lists stored matches without their ledgers.
func (s *Service) ListMatches(ctx context.Context, limit int) ([]models.Match, error) {
	return s.store.ListMatches(ctx, limit)
}

func (s *Service) battingOrder(match *models.Match, in *models.Innings) []string {
	if len(in.BattingOrder) > 0 {
		return in.BattingOrder
	}
	return match.XIFor(in.BattingTeamID)
}

func (s *Service) computeLive(match *models.Match) *LiveScore {
	live := &LiveScore{
		MatchID:   match.ID,
		Status:    match.Status,
		UpdatedAt: time.Now().UTC(),
	}

	in := match.CurrentInnings()
	if in == nil {
		return live
	}

	live.InningsIndex = len(match.Innings) - 1
	live.BattingTeamID = in.BattingTeamID
	live.BowlingTeamID = in.BowlingTeamID

	order := s.battingOrder(match, in)
	live.Summary = engine.ComputeInningsSummary(in.Events, match.Rules, in.BallsPerOver)
	live.Overs = live.Summary.OversString()

	strike := engine.CurrentBatters(in.Events, order, match.Rules, in.BallsPerOver)
	live.StrikerID = strike.StrikerID
	live.NonStrikerID = strike.NonStrikerID
	live.Inconsistent = strike.Inconsistent
	if strike.Inconsistent {
		slog.Warn("Ledger inconsistent", "match_id", match.ID, "innings", live.InningsIndex, "reason", strike.Inconsistency)
	}

	end := engine.ShouldEndInnings(in.Events, match.Rules, order, engine.LimitsFor(*in))
	live.InningsOver = end.End
	live.EndReason = end.Reason

	return live
}

func (s *Service) cacheLive(ctx context.Context, live *LiveScore) {
	if s.cache == nil {
		return
	}
	if err := s.cache.StoreLiveScore(ctx, live.MatchID, live, s.liveTTL); err != nil {
		slog.Warn("Failed to cache live score", "match_id", live.MatchID, "error", err)
	}
}
