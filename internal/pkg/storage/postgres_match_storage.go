package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/dotball/dotball/internal/pkg/config"
	"github.com/dotball/dotball/internal/pkg/models"
)

// Ensure PostgresMatchStorage implements MatchStorage
var _ MatchStorage = (*PostgresMatchStorage)(nil)

// PostgresMatchStorage stores match aggregates in PostgreSQL.
//
// The ball_events table is append-only: rows are inserted with a
// per-innings sequence number and the only delete ever issued removes
// the highest sequence (undo). Appends and undos take a row lock on the
// match, which serializes ledger writes per match ID.
type PostgresMatchStorage struct {
	db *sql.DB
}

// NewPostgresMatchStorage opens a connection and initializes the schema.
func NewPostgresMatchStorage(cfg *config.PostgresConfig) (*PostgresMatchStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	storage := &PostgresMatchStorage{db: db}
	if err := storage.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL match storage initialized")
	return storage, nil
}

func (s *PostgresMatchStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS matches (
		id VARCHAR(500) PRIMARY KEY,
		home_team_id VARCHAR(100) NOT NULL,
		away_team_id VARCHAR(100) NOT NULL,
		home_xi JSONB NOT NULL,
		away_xi JSONB NOT NULL,
		rules JSONB NOT NULL,
		status VARCHAR(50) NOT NULL,
		start_time TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS innings (
		match_id VARCHAR(500) NOT NULL REFERENCES matches(id),
		idx INTEGER NOT NULL,
		batting_team_id VARCHAR(100) NOT NULL,
		bowling_team_id VARCHAR(100) NOT NULL,
		max_overs INTEGER NOT NULL DEFAULT 0,
		balls_per_over INTEGER NOT NULL DEFAULT 0,
		max_wickets INTEGER NOT NULL DEFAULT 0,
		batting_order JSONB,
		initial_bowler_id VARCHAR(100) NOT NULL DEFAULT '',
		PRIMARY KEY (match_id, idx)
	);

	CREATE TABLE IF NOT EXISTS ball_events (
		match_id VARCHAR(500) NOT NULL REFERENCES matches(id),
		innings_idx INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		id VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		striker_id VARCHAR(100) NOT NULL,
		non_striker_id VARCHAR(100) NOT NULL,
		bowler_id VARCHAR(100) NOT NULL,
		over_number INTEGER NOT NULL,
		ball_in_over INTEGER NOT NULL,
		runs_off_bat INTEGER NOT NULL,
		extra_type VARCHAR(20) NOT NULL DEFAULT '',
		extra_runs INTEGER NOT NULL DEFAULT 0,
		wicket JSONB,
		note TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (match_id, innings_idx, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_ball_events_ledger ON ball_events(match_id, innings_idx, seq);
	CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// CreateMatch inserts the match row and any innings it already carries.
func (s *PostgresMatchStorage) CreateMatch(ctx context.Context, match *models.Match) error {
	homeXI, err := json.Marshal(match.HomeXI)
	if err != nil {
		return fmt.Errorf("failed to marshal home XI: %w", err)
	}
	awayXI, err := json.Marshal(match.AwayXI)
	if err != nil {
		return fmt.Errorf("failed to marshal away XI: %w", err)
	}
	rules, err := json.Marshal(match.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, home_team_id, away_team_id, home_xi, away_xi, rules, status, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		match.ID, match.HomeTeamID, match.AwayTeamID, homeXI, awayXI, rules, string(match.Status), match.StartTime)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}

	for i, in := range match.Innings {
		if err := insertInnings(ctx, tx, match.ID, i, in); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertInnings(ctx context.Context, tx *sql.Tx, matchID string, idx int, in models.Innings) error {
	var battingOrder []byte
	if len(in.BattingOrder) > 0 {
		var err error
		battingOrder, err = json.Marshal(in.BattingOrder)
		if err != nil {
			return fmt.Errorf("failed to marshal batting order: %w", err)
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO innings (match_id, idx, batting_team_id, bowling_team_id, max_overs, balls_per_over, max_wickets, batting_order, initial_bowler_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		matchID, idx, in.BattingTeamID, in.BowlingTeamID, in.MaxOvers, in.BallsPerOver, in.MaxWickets, battingOrder, in.InitialBowlerID)
	if err != nil {
		return fmt.Errorf("failed to insert innings %d for match %s: %w", idx, matchID, err)
	}
	return nil
}

// GetMatch loads the full aggregate in ledger order.
func (s *PostgresMatchStorage) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, home_team_id, away_team_id, home_xi, away_xi, rules, status, start_time, created_at, updated_at
		FROM matches WHERE id = $1`, matchID)

	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match not found: %s", matchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}

	if err := s.loadInnings(ctx, match); err != nil {
		return nil, err
	}
	if err := s.loadEvents(ctx, match); err != nil {
		return nil, err
	}

	return match, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	var homeXI, awayXI, rules []byte
	var status string
	var startTime sql.NullTime

	err := row.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &homeXI, &awayXI, &rules, &status, &startTime, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(homeXI, &m.HomeXI); err != nil {
		return nil, fmt.Errorf("failed to unmarshal home XI: %w", err)
	}
	if err := json.Unmarshal(awayXI, &m.AwayXI); err != nil {
		return nil, fmt.Errorf("failed to unmarshal away XI: %w", err)
	}
	if err := json.Unmarshal(rules, &m.Rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	m.Status = models.MatchStatus(status)
	if startTime.Valid {
		m.StartTime = startTime.Time
	}
	return &m, nil
}

func (s *PostgresMatchStorage) loadInnings(ctx context.Context, match *models.Match) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, batting_team_id, bowling_team_id, max_overs, balls_per_over, max_wickets, batting_order, initial_bowler_id
		FROM innings WHERE match_id = $1 ORDER BY idx`, match.ID)
	if err != nil {
		return fmt.Errorf("failed to load innings for match %s: %w", match.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var in models.Innings
		var idx int
		var battingOrder []byte
		if err := rows.Scan(&idx, &in.BattingTeamID, &in.BowlingTeamID, &in.MaxOvers, &in.BallsPerOver, &in.MaxWickets, &battingOrder, &in.InitialBowlerID); err != nil {
			return fmt.Errorf("failed to scan innings: %w", err)
		}
		if len(battingOrder) > 0 {
			if err := json.Unmarshal(battingOrder, &in.BattingOrder); err != nil {
				return fmt.Errorf("failed to unmarshal batting order: %w", err)
			}
		}
		match.Innings = append(match.Innings, in)
	}
	return rows.Err()
}

func (s *PostgresMatchStorage) loadEvents(ctx context.Context, match *models.Match) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT innings_idx, id, created_at, striker_id, non_striker_id, bowler_id,
		       over_number, ball_in_over, runs_off_bat, extra_type, extra_runs, wicket, note
		FROM ball_events WHERE match_id = $1 ORDER BY innings_idx, seq`, match.ID)
	if err != nil {
		return fmt.Errorf("failed to load ball events for match %s: %w", match.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.BallEvent
		var inningsIdx int
		var extraType string
		var wicket []byte
		if err := rows.Scan(&inningsIdx, &e.ID, &e.CreatedAt, &e.StrikerID, &e.NonStrikerID, &e.BowlerID,
			&e.OverNumber, &e.BallInOver, &e.RunsOffBat, &extraType, &e.Extras.Runs, &wicket, &e.Note); err != nil {
			return fmt.Errorf("failed to scan ball event: %w", err)
		}
		e.Extras.Type = models.ExtraType(extraType)
		if len(wicket) > 0 {
			var w models.WicketInfo
			if err := json.Unmarshal(wicket, &w); err != nil {
				return fmt.Errorf("failed to unmarshal wicket: %w", err)
			}
			e.Wicket = &w
		}
		if inningsIdx < 0 || inningsIdx >= len(match.Innings) {
			return fmt.Errorf("ball event references missing innings %d in match %s", inningsIdx, match.ID)
		}
		match.Innings[inningsIdx].Events = append(match.Innings[inningsIdx].Events, e)
	}
	return rows.Err()
}

// ListMatches returns matches without ledgers, newest first.
func (s *PostgresMatchStorage) ListMatches(ctx context.Context, limit int) ([]models.Match, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, home_team_id, away_team_id, home_xi, away_xi, rules, status, start_time, created_at, updated_at
		FROM matches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// AddInnings appends the next innings row for a match.
func (s *PostgresMatchStorage) AddInnings(ctx context.Context, matchID string, innings models.Innings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockMatch(ctx, tx, matchID); err != nil {
		return err
	}

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(idx), -1) + 1 FROM innings WHERE match_id = $1`, matchID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to determine next innings index: %w", err)
	}

	if err := insertInnings(ctx, tx, matchID, next, innings); err != nil {
		return err
	}
	if err := touchMatch(ctx, tx, matchID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStatus transitions the match lifecycle status.
func (s *PostgresMatchStorage) UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), matchID)
	if err != nil {
		return fmt.Errorf("failed to update status for match %s: %w", matchID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("match not found: %s", matchID)
	}
	return nil
}

// AppendBallEvent appends one delivery under a match row lock, so two
// concurrent appends to the same match cannot clobber each other.
func (s *PostgresMatchStorage) AppendBallEvent(ctx context.Context, matchID string, inningsIdx int, event models.BallEvent) error {
	var wicket []byte
	if event.Wicket != nil {
		var err error
		wicket, err = json.Marshal(event.Wicket)
		if err != nil {
			return fmt.Errorf("failed to marshal wicket: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockMatch(ctx, tx, matchID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ball_events (match_id, innings_idx, seq, id, created_at, striker_id, non_striker_id, bowler_id,
		                         over_number, ball_in_over, runs_off_bat, extra_type, extra_runs, wicket, note)
		VALUES ($1, $2,
		        (SELECT COALESCE(MAX(seq), 0) + 1 FROM ball_events WHERE match_id = $1 AND innings_idx = $2),
		        $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		matchID, inningsIdx, event.ID, event.CreatedAt, event.StrikerID, event.NonStrikerID, event.BowlerID,
		event.OverNumber, event.BallInOver, event.RunsOffBat, string(event.Extras.Type), event.Extras.Runs, wicket, event.Note)
	if err != nil {
		return fmt.Errorf("failed to append ball event to match %s innings %d: %w", matchID, inningsIdx, err)
	}

	if err := touchMatch(ctx, tx, matchID); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveLastBallEvent deletes the highest-sequence delivery of an
// innings. This is the only delete the ledger permits.
func (s *PostgresMatchStorage) RemoveLastBallEvent(ctx context.Context, matchID string, inningsIdx int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockMatch(ctx, tx, matchID); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM ball_events
		WHERE match_id = $1 AND innings_idx = $2
		  AND seq = (SELECT MAX(seq) FROM ball_events WHERE match_id = $1 AND innings_idx = $2)`,
		matchID, inningsIdx)
	if err != nil {
		return false, fmt.Errorf("failed to remove last ball event from match %s innings %d: %w", matchID, inningsIdx, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return false, tx.Commit()
	}

	if err := touchMatch(ctx, tx, matchID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func lockMatch(ctx context.Context, tx *sql.Tx, matchID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM matches WHERE id = $1 FOR UPDATE`, matchID).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("match not found: %s", matchID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock match %s: %w", matchID, err)
	}
	return nil
}

func touchMatch(ctx context.Context, tx *sql.Tx, matchID string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE matches SET updated_at = NOW() WHERE id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to touch match %s: %w", matchID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresMatchStorage) Close() error {
	return s.db.Close()
}
