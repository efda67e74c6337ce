package fixture

import (
	"strconv"
	"strings"
	"time"
)

// Fixture represents one scheduled match as loaded from a league feed.
// Fixtures are immutable after load; identity is (league, kickoff, home, away)
// or the provider ref id when present.
type Fixture struct {
	League     string
	LeagueWeek int
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Venue      string
	Broadcasts map[string]string
	Slug       string
	RefID      int64
}

// CanonicalKey returns the single identifier the live-score store and the
// extraction pipeline key their data by. Derivation precedence: provider ref
// id, then the composite key, then the slug. Empty when the fixture carries
// none of the three.
func (f Fixture) CanonicalKey() string {
	if f.RefID > 0 {
		return strconv.FormatInt(f.RefID, 10)
	}
	if key := f.CompositeKey(); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(f.Slug))
}

// CompositeKey builds the synthetic league_kickoff_home_x_away identifier.
// All four parts must be present; the result is fully lower-cased so lookups
// stay case-insensitive.
func (f Fixture) CompositeKey() string {
	league := strings.TrimSpace(f.League)
	home := strings.TrimSpace(f.HomeTeam)
	away := strings.TrimSpace(f.AwayTeam)
	if league == "" || home == "" || away == "" || f.KickoffAt.IsZero() {
		return ""
	}

	return strings.ToLower(
		league + "_" + f.KickoffAt.UTC().Format(time.RFC3339) + "_" + home + "_x_" + away,
	)
}

// Aliases lists every external-facing identifier that should resolve to this
// fixture: the ref id, the composite key and the slug, whichever exist.
func (f Fixture) Aliases() []string {
	out := make([]string, 0, 3)
	if f.RefID > 0 {
		out = append(out, strconv.FormatInt(f.RefID, 10))
	}
	if key := f.CompositeKey(); key != "" {
		out = append(out, key)
	}
	if slug := strings.ToLower(strings.TrimSpace(f.Slug)); slug != "" {
		out = append(out, slug)
	}
	return out
}
