package models

import "time"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusSetup      MatchStatus = "setup"
	StatusInProgress MatchStatus = "in_progress"
	StatusCompleted  MatchStatus = "completed"
)

// Innings is one side's turn at batting. It owns its ball-event ledger.
// Innings are created in sequence and never reordered; index parity
// decides which side is chasing once two or more innings exist.
//
// The override fields are zero when the match rules apply unchanged.
// A Super Over sets MaxOvers=1 and MaxWickets=2.
type Innings struct {
	BattingTeamID string      `json:"batting_team_id"`
	BowlingTeamID string      `json:"bowling_team_id"`
	Events        []BallEvent `json:"events"`

	MaxOvers     int `json:"max_overs,omitempty"`
	BallsPerOver int `json:"balls_per_over,omitempty"`
	MaxWickets   int `json:"max_wickets,omitempty"`

	// BattingOrder overrides the batting side's default XI order,
	// e.g. when a Super Over opens with a different pair.
	BattingOrder []string `json:"batting_order,omitempty"`

	InitialBowlerID string `json:"initial_bowler_id,omitempty"`
}

// IsSuperOver reports whether this innings is a one-over tie-break.
func (in Innings) IsSuperOver() bool {
	return in.MaxOvers == 1
}

// Match is the aggregate the scoring engine consumes. The engine treats
// it as an immutable snapshot; lifecycle transitions construct a new
// snapshot at the boundary. Player and team IDs are weak references.
type Match struct {
	ID         string      `json:"id"`
	HomeTeamID string      `json:"home_team_id"`
	AwayTeamID string      `json:"away_team_id"`
	HomeXI     []string    `json:"home_xi"`
	AwayXI     []string    `json:"away_xi"`
	Rules      RulesConfig `json:"rules"`
	Innings    []Innings   `json:"innings"`
	Status     MatchStatus `json:"status"`
	StartTime  time.Time   `json:"start_time"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// XIFor returns the playing XI for a team ID, or nil if the team is not
// part of the match.
func (m *Match) XIFor(teamID string) []string {
	switch teamID {
	case m.HomeTeamID:
		return m.HomeXI
	case m.AwayTeamID:
		return m.AwayXI
	}
	return nil
}

// CurrentInnings returns a pointer to the most recent innings, or nil
// when no innings has been created yet.
func (m *Match) CurrentInnings() *Innings {
	if len(m.Innings) == 0 {
		return nil
	}
	return &m.Innings[len(m.Innings)-1]
}

// Player is a weak reference record kept only for display purposes.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a weak reference record kept only for display purposes.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
