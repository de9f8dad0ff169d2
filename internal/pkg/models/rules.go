package models

// ValidBallsPerOver lists the over lengths the scorer supports.
// Six is the modern standard; four, five and eight balls show up in
// historical and junior formats.
var ValidBallsPerOver = []int{4, 5, 6, 8}

// RulesConfig parametrizes a match. It is fixed once the match starts;
// an individual innings may locally override BallsPerOver and the overs
// limit (Super Over).
type RulesConfig struct {
	OversPerInnings    int  `json:"overs_per_innings" yaml:"overs_per_innings"`
	BallsPerOver       int  `json:"balls_per_over" yaml:"balls_per_over"`
	WideRuns           int  `json:"wide_runs" yaml:"wide_runs"`
	NoBallRuns         int  `json:"no_ball_runs" yaml:"no_ball_runs"`
	WideCountsAsBall   bool `json:"wide_counts_as_ball" yaml:"wide_counts_as_ball"`
	NoBallCountsAsBall bool `json:"no_ball_counts_as_ball" yaml:"no_ball_counts_as_ball"`

	// LastManStanding lets the final batter carry on alone, so the
	// innings only ends when every batter is out.
	LastManStanding bool `json:"last_man_standing" yaml:"last_man_standing"`

	// MaxOversPerBowler is recorded but not yet enforced anywhere.
	MaxOversPerBowler int `json:"max_overs_per_bowler,omitempty" yaml:"max_overs_per_bowler"`
}

// DefaultRules returns a standard T20 configuration.
func DefaultRules() RulesConfig {
	return RulesConfig{
		OversPerInnings:    20,
		BallsPerOver:       6,
		WideRuns:           1,
		NoBallRuns:         1,
		WideCountsAsBall:   false,
		NoBallCountsAsBall: false,
	}
}
