package storage

import (
	"context"

	"github.com/dotball/dotball/internal/pkg/models"
)

// MatchStorage persists the match aggregate. The scoring engine never
// touches storage: callers load a snapshot, compute, and save.
//
// Implementations must serialize writes per match ID. The engine's
// functions are pure over a complete ledger, so "serialize ledger
// writes per match" is the only discipline concurrent appenders need.
type MatchStorage interface {
	// CreateMatch inserts a new match with its innings (ledgers start empty).
	CreateMatch(ctx context.Context, match *models.Match) error

	// GetMatch loads the full aggregate: match, innings, and every
	// ball event in ledger order.
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)

	// ListMatches returns matches without their ledgers, newest first.
	ListMatches(ctx context.Context, limit int) ([]models.Match, error)

	// AddInnings appends an innings to a match.
	AddInnings(ctx context.Context, matchID string, innings models.Innings) error

	// UpdateStatus transitions the match lifecycle status.
	UpdateStatus(ctx context.Context, matchID string, status models.MatchStatus) error

	// AppendBallEvent appends one delivery to an innings ledger. The
	// write is serialized against other appends/undos on the same match.
	AppendBallEvent(ctx context.Context, matchID string, inningsIdx int, event models.BallEvent) error

	// RemoveLastBallEvent undoes the most recent delivery of an innings.
	// Returns false when the ledger is already empty.
	RemoveLastBallEvent(ctx context.Context, matchID string, inningsIdx int) (bool, error)

	// Close closes the database connection.
	Close() error
}
