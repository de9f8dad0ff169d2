package engine

import (
	"testing"

	"github.com/dotball/dotball/internal/pkg/models"
)

func TestComputeBattingCard_BallsFacedClassification(t *testing.T) {
	// Byes and leg-byes count as balls faced; wides and no-balls don't.
	ledger := []models.BallEvent{
		bat("A", 0),
		extra("A", models.ExtraBye, 2),
		extra("A", models.ExtraLegBye, 1),
		extra("A", models.ExtraWide, 1),
		extra("A", models.ExtraNoBall, 1),
	}

	card := ComputeBattingCard(ledger, []string{"A", "B"})
	if card[0].Balls != 3 {
		t.Errorf("A faced %d balls, want 3", card[0].Balls)
	}
	if card[0].Runs != 0 {
		t.Errorf("A has %d runs, want 0 (extras are not bat runs)", card[0].Runs)
	}
	if card[1].Balls != 0 || card[1].Runs != 0 {
		t.Errorf("B should have a zeroed entry, got %+v", card[1])
	}
}

func TestComputeBattingCard_BoundariesAndStrikeRate(t *testing.T) {
	ledger := []models.BallEvent{
		bat("A", 4),
		bat("A", 6),
		bat("A", 4),
		bat("A", 1),
	}

	card := ComputeBattingCard(ledger, []string{"A", "B"})
	a := card[0]
	if a.Runs != 15 || a.Balls != 4 {
		t.Fatalf("A = %d runs off %d balls, want 15 off 4", a.Runs, a.Balls)
	}
	if a.Fours != 2 || a.Sixes != 1 {
		t.Errorf("A boundaries = %dx4 %dx6, want 2x4 1x6", a.Fours, a.Sixes)
	}
	if a.StrikeRate != 375.00 {
		t.Errorf("A strike rate = %.2f, want 375.00", a.StrikeRate)
	}
}

func TestComputeBattingCard_ZeroBallsZeroStrikeRate(t *testing.T) {
	card := ComputeBattingCard(nil, []string{"A", "B"})
	if card[0].StrikeRate != 0 {
		t.Errorf("strike rate with no balls = %.2f, want 0", card[0].StrikeRate)
	}
}

func TestComputeBattingCard_DismissalText(t *testing.T) {
	tests := []struct {
		name   string
		wicket models.WicketInfo
		want   string
	}{
		{"bowled", models.WicketInfo{Kind: models.WicketBowled, BatterOutID: "A"}, "b"},
		{"caught", models.WicketInfo{Kind: models.WicketCaught, BatterOutID: "A", FielderID: "F"}, "c ? b"},
		{"lbw", models.WicketInfo{Kind: models.WicketLBW, BatterOutID: "A"}, "lbw b"},
		{"run out no fielder", models.WicketInfo{Kind: models.WicketRunOut, BatterOutID: "A"}, "run out"},
		{"run out with fielder", models.WicketInfo{Kind: models.WicketRunOut, BatterOutID: "A", FielderID: "F"}, "run out (?)"},
		{"stumped no fielder", models.WicketInfo{Kind: models.WicketStumped, BatterOutID: "A"}, "st b"},
		{"stumped with fielder", models.WicketInfo{Kind: models.WicketStumped, BatterOutID: "A", FielderID: "F"}, "st ? b"},
		{"hit wicket", models.WicketInfo{Kind: models.WicketHitWicket, BatterOutID: "A"}, "hit wicket b"},
		{"retired", models.WicketInfo{Kind: models.WicketRetired, BatterOutID: "A"}, "retired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.wicket
			ledger := []models.BallEvent{{StrikerID: "A", BowlerID: "X", Wicket: &w}}
			card := ComputeBattingCard(ledger, []string{"A", "B"})
			if !card[0].Out {
				t.Fatal("A should be marked out")
			}
			if card[0].Dismissal != tt.want {
				t.Errorf("dismissal = %q, want %q", card[0].Dismissal, tt.want)
			}
		})
	}
}

func TestComputeBattingCard_NonStrikerRunOut(t *testing.T) {
	// The wicket can name the non-striker; the striker's figures must
	// not absorb the dismissal.
	ledger := []models.BallEvent{
		{StrikerID: "A", BowlerID: "X", RunsOffBat: 1,
			Wicket: &models.WicketInfo{Kind: models.WicketRunOut, BatterOutID: "B"}},
	}
	card := ComputeBattingCard(ledger, []string{"A", "B"})
	if card[0].Out {
		t.Error("striker A should not be out")
	}
	if !card[1].Out || card[1].Dismissal != "run out" {
		t.Errorf("non-striker B should be run out, got %+v", card[1])
	}
}
