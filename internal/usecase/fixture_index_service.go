package usecase

import (
	"context"
	"fmt"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

// FixtureIndexService owns the alias table: it builds an immutable index
// from the full fixture set and atomically publishes it. There is no partial
// update path; any feed change means a full rebuild and swap.
type FixtureIndexService struct {
	fixtureRepo fixture.Repository
	table       *fixture.AliasTable
	invalidate  func(ctx context.Context)
	logger      *logging.Logger
}

// NewFixtureIndexService builds the service. The invalidate hook, when
// non-nil, drops the feed read cache before every rebuild so an explicit
// reload reads the files as they are now, not as the TTL last saw them.
func NewFixtureIndexService(
	fixtureRepo fixture.Repository,
	table *fixture.AliasTable,
	invalidate func(ctx context.Context),
	logger *logging.Logger,
) *FixtureIndexService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FixtureIndexService{
		fixtureRepo: fixtureRepo,
		table:       table,
		invalidate:  invalidate,
		logger:      logger,
	}
}

// Rebuild reloads the fixture set, rebuilds the alias index and swaps it in.
// Fixtures colliding on a canonical key are rejected and logged, never
// merged: two distinct fixtures sharing a key is a feed defect.
func (s *FixtureIndexService) Rebuild(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureIndexService.Rebuild")
	defer span.End()

	if s.invalidate != nil {
		s.invalidate(ctx)
	}

	fixtures, err := s.fixtureRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list fixtures for index rebuild: %w", err)
	}

	index, duplicates := fixture.BuildIndex(fixtures)
	for _, dup := range duplicates {
		s.logger.ErrorContext(ctx, "rejected fixture with duplicate canonical key",
			"key", dup.CanonicalKey,
			"kept_league", dup.Kept.League,
			"dropped_league", dup.Dropped.League,
			"dropped_home", dup.Dropped.HomeTeam,
			"dropped_away", dup.Dropped.AwayTeam,
		)
	}

	s.table.Replace(index)
	s.logger.InfoContext(ctx, "alias index rebuilt",
		"fixtures", len(fixtures),
		"indexed", index.Len(),
		"duplicates", len(duplicates),
	)

	return index.Len(), nil
}
