package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

func writeFeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestSource(t *testing.T) (*Source, string) {
	t.Helper()
	dir := t.TempDir()
	writeFeedFile(t, dir, "leagues.json", `{
  "premier-league": {"name": "Premier League", "country_code": "GB", "season": "2025/26"},
  "la-liga": {"name": "La Liga", "country_code": "ES", "season": "2025/26"},
  "broken": {"country_code": "XX"}
}`)
	writeFeedFile(t, dir, "teams.json", `{
  "ars": {"name": "Arsenal", "badge": "https://cdn.example/ars.png", "venue": "Emirates Stadium"},
  "che": {"name": "Chelsea"},
  "bad": {"badge": "https://cdn.example/bad.png"}
}`)
	writeFeedFile(t, dir, "premier-league.json", `[
  {"league": "Premier-League", "league_week_number": 3, "kickoff": "2025-06-06T20:00:00Z",
   "home_team": "ars", "away_team": "che", "slug": "arsenal-chelsea", "ref_id": 471045,
   "broadcasts": {"uk": "Sky Sports"}},
  {"league": "premier-league", "home_team": "tot", "away_team": ""},
  {"league": "premier-league", "home_team": "tot", "away_team": "avl", "kickoff": "yesterday"}
]`)
	return NewSource(dir, logging.NewNop()), dir
}

func TestLeagueRepository_SkipsInvalidEntries(t *testing.T) {
	source, _ := newTestSource(t)
	repo := NewLeagueRepository(source)

	leagues, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	// "broken" has no name and is dropped; order is sorted by code.
	if len(leagues) != 2 {
		t.Fatalf("leagues = %+v, want 2", leagues)
	}
	if leagues[0].Code != "la-liga" || leagues[1].Code != "premier-league" {
		t.Fatalf("league order = %q, %q", leagues[0].Code, leagues[1].Code)
	}

	l, ok, err := repo.GetByCode(context.Background(), " Premier-League ")
	if err != nil || !ok {
		t.Fatalf("GetByCode: %v ok=%v", err, ok)
	}
	if l.Name != "Premier League" || l.Season != "2025/26" {
		t.Fatalf("league = %+v", l)
	}
}

func TestTeamRepository_UppercasesCodes(t *testing.T) {
	source, _ := newTestSource(t)
	repo := NewTeamRepository(source)

	teams, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("teams = %+v, want 2 with the nameless entry dropped", teams)
	}

	team, ok, err := repo.GetByCode(context.Background(), "ars")
	if err != nil || !ok {
		t.Fatalf("GetByCode: %v ok=%v", err, ok)
	}
	if team.Code != "ARS" || team.Name != "Arsenal" || team.Venue != "Emirates Stadium" {
		t.Fatalf("team = %+v", team)
	}

	if _, ok, _ := repo.GetByCode(context.Background(), "zzz"); ok {
		t.Fatal("unknown team code resolved")
	}
}

func TestFixtureRepository_LoadsAndNormalizes(t *testing.T) {
	source, _ := newTestSource(t)
	repo := NewFixtureRepository(source)

	fixtures, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	// Two malformed entries drop; la-liga has no fixture file at all.
	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %+v, want 1", fixtures)
	}

	f := fixtures[0]
	if f.League != "premier-league" || f.HomeTeam != "ARS" || f.AwayTeam != "CHE" {
		t.Fatalf("fixture = %+v", f)
	}
	if !f.KickoffAt.Equal(time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC)) {
		t.Fatalf("kickoff = %s", f.KickoffAt)
	}
	if f.RefID != 471045 || f.Slug != "arsenal-chelsea" {
		t.Fatalf("fixture identity = %+v", f)
	}
	if f.Broadcasts["uk"] != "Sky Sports" {
		t.Fatalf("broadcasts = %v", f.Broadcasts)
	}
}

func TestFixtureRepository_ListByLeague(t *testing.T) {
	source, _ := newTestSource(t)
	repo := NewFixtureRepository(source)

	fixtures, err := repo.ListByLeague(context.Background(), " PREMIER-LEAGUE ")
	if err != nil {
		t.Fatalf("ListByLeague: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %+v, want 1", fixtures)
	}

	none, err := repo.ListByLeague(context.Background(), "la-liga")
	if err != nil {
		t.Fatalf("ListByLeague(la-liga): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("fixtures = %+v, want none for a league without a file", none)
	}
}

func TestSource_MissingLeaguesFile(t *testing.T) {
	source := NewSource(t.TempDir(), logging.NewNop())

	if _, err := NewLeagueRepository(source).List(context.Background()); err == nil {
		t.Fatal("expected error when leagues.json is missing")
	}
	if _, err := NewFixtureRepository(source).ListAll(context.Background()); err == nil {
		t.Fatal("expected error when the feed directory is empty")
	}
}

func TestSource_UnreadableFixtureFileDropsLeagueOnly(t *testing.T) {
	source, dir := newTestSource(t)
	writeFeedFile(t, dir, "la-liga.json", `{not json`)

	fixtures, err := NewFixtureRepository(source).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("fixtures = %+v, a broken league file must not take the schedule down", fixtures)
	}
}
