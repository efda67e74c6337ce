package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/league"
	"github.com/goalfeed/livescore-api/internal/domain/livescore"
	"github.com/goalfeed/livescore-api/internal/domain/team"
)

// MatchTeam is the enriched team block inside a match view.
type MatchTeam struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Badge string `json:"badge"`
	Venue string `json:"venue"`
}

// Match is the API view of one fixture, enriched with team details and the
// default pre-resolution live fields.
type Match struct {
	MatchID    string            `json:"match_id"`
	League     string            `json:"league"`
	LeagueWeek int               `json:"league_week_number"`
	Kickoff    *time.Time        `json:"kickoff"`
	Broadcasts map[string]string `json:"broadcasts,omitempty"`
	HomeTeam   MatchTeam         `json:"home_team"`
	AwayTeam   MatchTeam         `json:"away_team"`
	Score      livescore.Score   `json:"score"`
	Status     string            `json:"status"`
	Minute     *int              `json:"minute"`
}

// MatchService serves the fixture listing surface around the live-score core.
type MatchService struct {
	leagueRepo  league.Repository
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	aliases     *fixture.AliasTable
}

func NewMatchService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	aliases *fixture.AliasTable,
) *MatchService {
	return &MatchService{
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		aliases:     aliases,
	}
}

// ListMatches returns every known match, newest kickoff first. Fixtures
// without a kickoff sort last. An optional league code narrows the set.
func (s *MatchService) ListMatches(ctx context.Context, leagueCode string) ([]Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	var (
		fixtures []fixture.Fixture
		err      error
	)

	leagueCode = strings.TrimSpace(leagueCode)
	if leagueCode == "" {
		fixtures, err = s.fixtureRepo.ListAll(ctx)
	} else {
		if _, exists, lookupErr := s.leagueRepo.GetByCode(ctx, leagueCode); lookupErr != nil {
			return nil, fmt.Errorf("get league: %w", lookupErr)
		} else if !exists {
			return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueCode)
		}
		fixtures, err = s.fixtureRepo.ListByLeague(ctx, leagueCode)
	}
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	matches := make([]Match, 0, len(fixtures))
	for _, f := range fixtures {
		matches = append(matches, s.buildMatch(ctx, f))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		left, right := matches[i].Kickoff, matches[j].Kickoff
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.After(*right)
		}
	})

	return matches, nil
}

// GetMatch resolves any alias of a match to its enriched view.
func (s *MatchService) GetMatch(ctx context.Context, identifier string) (Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Match{}, fmt.Errorf("%w: match identifier is required", ErrInvalidInput)
	}

	ref, ok := s.aliases.Resolve(identifier)
	if !ok {
		return Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, identifier)
	}

	return s.buildMatch(ctx, ref.Fixture), nil
}

func (s *MatchService) buildMatch(ctx context.Context, f fixture.Fixture) Match {
	match := Match{
		MatchID:    f.CanonicalKey(),
		League:     f.League,
		LeagueWeek: f.LeagueWeek,
		Broadcasts: f.Broadcasts,
		HomeTeam:   s.buildMatchTeam(ctx, f.HomeTeam),
		AwayTeam:   s.buildMatchTeam(ctx, f.AwayTeam),
		Status:     livescore.StatusUpcoming,
	}
	if !f.KickoffAt.IsZero() {
		kickoff := f.KickoffAt.UTC()
		match.Kickoff = &kickoff
	}
	return match
}

// buildMatchTeam degrades to the bare code when the team feed has no entry,
// the same way the schedule should never disappear over a missing badge.
func (s *MatchService) buildMatchTeam(ctx context.Context, code string) MatchTeam {
	out := MatchTeam{
		ID:   strings.ToLower(strings.TrimSpace(code)),
		Name: code,
	}

	t, exists, err := s.teamRepo.GetByCode(ctx, code)
	if err != nil || !exists {
		return out
	}

	out.Name = t.Name
	out.Badge = t.Badge
	out.Venue = t.Venue
	return out
}
