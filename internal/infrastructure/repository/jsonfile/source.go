package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/league"
	"github.com/goalfeed/livescore-api/internal/domain/team"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

const (
	leaguesFileName = "leagues.json"
	teamsFileName   = "teams.json"
)

// Source reads the static schedule feed: leagues.json, teams.json and one
// <league>.json fixture file per league, all under one data directory. Files
// are decoded on every call; callers that need speed wrap the repositories
// with the cache decorators.
type Source struct {
	dir    string
	logger *logging.Logger
}

func NewSource(dir string, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{
		dir:    strings.TrimSpace(dir),
		logger: logger,
	}
}

type leagueFileEntry struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Season      string `json:"season"`
}

type teamFileEntry struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
	Venue string `json:"venue"`
}

type fixtureFileEntry struct {
	League     string            `json:"league"`
	LeagueWeek int               `json:"league_week_number"`
	Kickoff    string            `json:"kickoff"`
	HomeTeam   string            `json:"home_team"`
	AwayTeam   string            `json:"away_team"`
	Venue      string            `json:"venue"`
	Broadcasts map[string]string `json:"broadcasts"`
	Slug       string            `json:"slug"`
	RefID      int64             `json:"ref_id"`
}

func (s *Source) loadLeagues() ([]league.League, error) {
	var entries map[string]leagueFileEntry
	if err := s.decodeFile(leaguesFileName, &entries); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(entries))
	for code := range entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]league.League, 0, len(codes))
	for _, code := range codes {
		entry := entries[code]
		l := league.League{
			Code:        strings.ToLower(strings.TrimSpace(code)),
			Name:        entry.Name,
			CountryCode: entry.CountryCode,
			Season:      entry.Season,
		}
		if err := l.Validate(); err != nil {
			s.logger.Warn("skipping invalid league entry", "code", code, "error", err)
			continue
		}
		out = append(out, l)
	}

	return out, nil
}

func (s *Source) loadTeams() ([]team.Team, error) {
	var entries map[string]teamFileEntry
	if err := s.decodeFile(teamsFileName, &entries); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(entries))
	for code := range entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]team.Team, 0, len(codes))
	for _, code := range codes {
		entry := entries[code]
		t := team.Team{
			Code:  strings.ToUpper(strings.TrimSpace(code)),
			Name:  entry.Name,
			Badge: entry.Badge,
			Venue: entry.Venue,
		}
		if err := t.Validate(); err != nil {
			s.logger.Warn("skipping invalid team entry", "code", code, "error", err)
			continue
		}
		out = append(out, t)
	}

	return out, nil
}

// loadFixtures reads every league's fixture file. A league file that is
// missing or fails to decode only drops that league, the rest of the
// schedule still loads.
func (s *Source) loadFixtures(leagues []league.League) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(leagues)*16)
	for _, l := range leagues {
		fileName := l.Code + ".json"

		var entries []fixtureFileEntry
		if err := s.decodeFile(fileName, &entries); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			s.logger.Warn("skipping unreadable fixture file", "file", fileName, "error", err)
			continue
		}

		for _, entry := range entries {
			f, err := mapFixtureEntry(entry)
			if err != nil {
				s.logger.Warn("skipping invalid fixture entry", "file", fileName, "error", err)
				continue
			}
			out = append(out, f)
		}
	}

	return out, nil
}

func mapFixtureEntry(entry fixtureFileEntry) (fixture.Fixture, error) {
	if strings.TrimSpace(entry.League) == "" {
		return fixture.Fixture{}, fmt.Errorf("league is required")
	}
	if strings.TrimSpace(entry.HomeTeam) == "" || strings.TrimSpace(entry.AwayTeam) == "" {
		return fixture.Fixture{}, fmt.Errorf("home and away teams are required")
	}

	var kickoff time.Time
	if raw := strings.TrimSpace(entry.Kickoff); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fixture.Fixture{}, fmt.Errorf("parse kickoff %q: %w", raw, err)
		}
		kickoff = parsed.UTC()
	}

	return fixture.Fixture{
		League:     strings.ToLower(strings.TrimSpace(entry.League)),
		LeagueWeek: entry.LeagueWeek,
		HomeTeam:   strings.ToUpper(strings.TrimSpace(entry.HomeTeam)),
		AwayTeam:   strings.ToUpper(strings.TrimSpace(entry.AwayTeam)),
		KickoffAt:  kickoff,
		Venue:      entry.Venue,
		Broadcasts: entry.Broadcasts,
		Slug:       strings.TrimSpace(entry.Slug),
		RefID:      entry.RefID,
	}, nil
}

func (s *Source) decodeFile(name string, target any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
