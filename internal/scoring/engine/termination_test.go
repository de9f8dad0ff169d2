package engine

import (
	"testing"

	"github.com/dotball/dotball/internal/pkg/models"
)

func TestShouldEndInnings_OversComplete(t *testing.T) {
	rules := t20Rules()
	rules.OversPerInnings = 1
	order := []string{"A", "B", "C"}

	// Never before the exact ball count.
	for n := 0; n < 6; n++ {
		end := ShouldEndInnings(dots("A", n), rules, order, InningsLimits{})
		if end.End {
			t.Fatalf("innings ended after %d legal balls, limit is 6", n)
		}
	}

	end := ShouldEndInnings(dots("A", 6), rules, order, InningsLimits{})
	if !end.End || end.Reason != EndReasonOversComplete {
		t.Errorf("after 6 legal balls: %+v, want overs_complete", end)
	}
}

func TestShouldEndInnings_WidesDoNotCount(t *testing.T) {
	rules := t20Rules()
	rules.OversPerInnings = 1
	ledger := dots("A", 5)
	for i := 0; i < 10; i++ {
		ledger = append(ledger, extra("A", models.ExtraWide, 1))
	}

	end := ShouldEndInnings(ledger, rules, []string{"A", "B"}, InningsLimits{})
	if end.End {
		t.Errorf("wides must not progress the over: %+v", end)
	}
}

func TestShouldEndInnings_AllOut(t *testing.T) {
	order := []string{"A", "B", "C"}

	tests := []struct {
		name        string
		lastMan     bool
		wickets     int
		wantEnd     bool
	}{
		{"two down of three ends it", false, 2, true},
		{"one down of three continues", false, 1, false},
		{"last man standing allows two down", true, 2, false},
		{"last man standing ends at three", true, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := t20Rules()
			rules.LastManStanding = tt.lastMan

			var ledger []models.BallEvent
			batters := []string{"A", "B", "C"}
			for i := 0; i < tt.wickets; i++ {
				ledger = append(ledger, wicket(batters[i], batters[i], models.WicketBowled))
			}

			end := ShouldEndInnings(ledger, rules, order, InningsLimits{})
			if end.End != tt.wantEnd {
				t.Errorf("end = %v, want %v (%+v)", end.End, tt.wantEnd, end)
			}
			if tt.wantEnd && end.Reason != EndReasonAllOut {
				t.Errorf("reason = %q, want all_out", end.Reason)
			}
		})
	}
}

func TestShouldEndInnings_SuperOverOverrides(t *testing.T) {
	rules := t20Rules()
	limits := InningsLimits{MaxOvers: 1, MaxWickets: 2}
	order := []string{"A", "B", "C"}

	end := ShouldEndInnings(dots("A", 6), rules, order, limits)
	if !end.End || end.Reason != EndReasonOversComplete {
		t.Errorf("super over after 6 balls: %+v, want overs_complete", end)
	}

	ledger := []models.BallEvent{
		wicket("A", "A", models.WicketBowled),
		wicket("C", "C", models.WicketBowled),
	}
	end = ShouldEndInnings(ledger, rules, order, limits)
	if !end.End || end.Reason != EndReasonAllOut {
		t.Errorf("super over with 2 wickets: %+v, want all_out", end)
	}
}

func TestShouldEndInnings_OversBeforeAllOut(t *testing.T) {
	// Both conditions true on the same delivery: overs wins by the
	// fixed evaluation order.
	rules := t20Rules()
	rules.OversPerInnings = 1
	order := []string{"A", "B"}

	ledger := dots("A", 5)
	ledger = append(ledger, wicket("A", "A", models.WicketBowled))

	end := ShouldEndInnings(ledger, rules, order, InningsLimits{})
	if !end.End {
		t.Fatal("innings should end")
	}
	if end.Reason != EndReasonOversComplete {
		t.Errorf("reason = %q, want overs_complete ahead of all_out", end.Reason)
	}
}
