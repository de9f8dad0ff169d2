package models

import "time"

// ExtraType classifies the extras awarded on a delivery. At most one
// extras tag applies per delivery.
type ExtraType string

const (
	ExtraNone   ExtraType = ""
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// Extras carries the extras tag and the runs awarded with it.
type Extras struct {
	Type ExtraType `json:"type,omitempty"`
	Runs int       `json:"runs,omitempty"`
}

// WicketKind identifies how a batter was dismissed.
type WicketKind string

const (
	WicketBowled    WicketKind = "bowled"
	WicketCaught    WicketKind = "caught"
	WicketLBW       WicketKind = "lbw"
	WicketRunOut    WicketKind = "run_out"
	WicketStumped   WicketKind = "stumped"
	WicketHitWicket WicketKind = "hit_wicket"
	WicketRetired   WicketKind = "retired"
)

// WicketInfo records a dismissal on a delivery. BatterOutID and
// FielderID are player references, not ownership.
type WicketInfo struct {
	Kind        WicketKind `json:"kind"`
	BatterOutID string     `json:"batter_out_id"`
	FielderID   string     `json:"fielder_id,omitempty"`
}

// BallEvent is one delivery in an innings ledger. The ledger is
// append-only: the only permitted mutation is removing the last event
// (undo). Events are never edited or reordered.
//
// OverNumber and BallInOver are informational, derived at append time.
// Scoring always re-derives position from ledger order, never from
// these fields.
type BallEvent struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	StrikerID    string     `json:"striker_id"`
	NonStrikerID string     `json:"non_striker_id"`
	BowlerID     string     `json:"bowler_id"`
	OverNumber   int        `json:"over_number"`
	BallInOver   int        `json:"ball_in_over"`
	RunsOffBat   int        `json:"runs_off_bat"`
	Extras       Extras     `json:"extras,omitempty"`
	Wicket       *WicketInfo `json:"wicket,omitempty"`
	Note         string     `json:"note,omitempty"`
}
