package models

import (
	"strings"
	"time"
)

// CanonicalMatchID builds a stable match identifier from the two team
// names and the scheduled start time.
//
// IMPORTANT: this assumes team names arrive in a consistent
// language/format across callers. Format: home|away|time.
func CanonicalMatchID(homeTeam, awayTeam string, startTime time.Time) string {
	home := normalizeKeyPart(homeTeam)
	away := normalizeKeyPart(awayTeam)

	ts := "unknown-time"
	if !startTime.IsZero() {
		ts = startTime.UTC().Format(time.RFC3339)
	}

	return home + "|" + away + "|" + ts
}

func normalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	// Keep it key-friendly: the separator and slashes become spaces.
	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
