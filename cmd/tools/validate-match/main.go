// Validates a match aggregate exported as JSON: structural checks via
// the validator, then a full engine replay of every innings reporting
// ledger inconsistencies and derived totals.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/dotball/dotball/internal/pkg/models"
	"github.com/dotball/dotball/internal/pkg/validation"
	"github.com/dotball/dotball/internal/scoring/engine"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: validate-match <match.json>")
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	var match models.Match
	if err := json.Unmarshal(data, &match); err != nil {
		log.Fatalf("Failed to parse JSON: %v", err)
	}

	validator := validation.NewValidator()
	problems := 0

	if err := validator.ValidateMatch(&match); err != nil {
		fmt.Printf("MATCH INVALID: %v\n", err)
		problems++
	}

	for i := range match.Innings {
		in := &match.Innings[i]
		fmt.Printf("\n=== Innings %d: %s batting vs %s ===\n", i+1, in.BattingTeamID, in.BowlingTeamID)

		for j, event := range in.Events {
			if err := validator.ValidateBallEvent(event); err != nil {
				fmt.Printf("  event %d invalid: %v\n", j+1, err)
				problems++
			}
		}

		order := in.BattingOrder
		if len(order) == 0 {
			order = match.XIFor(in.BattingTeamID)
		}

		summary := engine.ComputeInningsSummary(in.Events, match.Rules, in.BallsPerOver)
		fmt.Printf("  score: %d/%d in %s overs (RR %.2f)\n",
			summary.Runs, summary.Wickets, summary.OversString(), summary.RunRate)

		strike := engine.CurrentBatters(in.Events, order, match.Rules, in.BallsPerOver)
		if strike.Inconsistent {
			fmt.Printf("  LEDGER INCONSISTENT: %s\n", strike.Inconsistency)
			problems++
		} else {
			fmt.Printf("  at crease: %s (striker), %s\n", strike.StrikerID, strike.NonStrikerID)
		}

		end := engine.ShouldEndInnings(in.Events, match.Rules, order, engine.LimitsFor(*in))
		if end.End {
			fmt.Printf("  innings over: %s\n", end.Reason)
		}
	}

	if len(match.Innings) >= 2 {
		first := &match.Innings[0]
		result := engine.ResolveMatchResult(match.Innings, match.Rules, len(match.XIFor(first.BattingTeamID)))
		fmt.Printf("\nResult: %s\n", result.Message)
	}

	if problems > 0 {
		fmt.Printf("\n%d problem(s) found\n", problems)
		os.Exit(1)
	}
	fmt.Println("\nMatch is valid")
}
