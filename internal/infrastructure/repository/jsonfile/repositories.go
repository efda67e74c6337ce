package jsonfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/league"
	"github.com/goalfeed/livescore-api/internal/domain/team"
)

type LeagueRepository struct {
	source *Source
}

func NewLeagueRepository(source *Source) *LeagueRepository {
	return &LeagueRepository{source: source}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	leagues, err := r.source.loadLeagues()
	if err != nil {
		return nil, fmt.Errorf("load leagues: %w", err)
	}
	return leagues, nil
}

func (r *LeagueRepository) GetByCode(ctx context.Context, code string) (league.League, bool, error) {
	leagues, err := r.List(ctx)
	if err != nil {
		return league.League{}, false, err
	}

	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range leagues {
		if l.Code == code {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

type TeamRepository struct {
	source *Source
}

func NewTeamRepository(source *Source) *TeamRepository {
	return &TeamRepository{source: source}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	teams, err := r.source.loadTeams()
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	return teams, nil
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	teams, err := r.List(ctx)
	if err != nil {
		return team.Team{}, false, err
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	for _, t := range teams {
		if t.Code == code {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

type FixtureRepository struct {
	source *Source
}

func NewFixtureRepository(source *Source) *FixtureRepository {
	return &FixtureRepository{source: source}
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	leagues, err := r.source.loadLeagues()
	if err != nil {
		return nil, fmt.Errorf("load leagues: %w", err)
	}
	fixtures, err := r.source.loadFixtures(leagues)
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}
	return fixtures, nil
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueCode string) ([]fixture.Fixture, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	leagueCode = strings.ToLower(strings.TrimSpace(leagueCode))
	out := make([]fixture.Fixture, 0, len(all))
	for _, f := range all {
		if f.League == leagueCode {
			out = append(out, f)
		}
	}
	return out, nil
}
