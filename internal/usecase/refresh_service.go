package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/platform/id"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusSkipped = "skipped"
	refreshStatusFailed  = "failed"

	defaultRefreshWorkers = 8
)

// JobPublisher enqueues delayed callbacks against the service's internal job
// routes.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// RefreshTaskResult is the per-match outcome of one refresh sweep.
type RefreshTaskResult struct {
	MatchKey   string `json:"match_key"`
	League     string `json:"league"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// RefreshResult aggregates one full sweep.
type RefreshResult struct {
	Tasks        []RefreshTaskResult `json:"tasks"`
	SuccessCount int                 `json:"success_count"`
	SkippedCount int                 `json:"skipped_count"`
	FailedCount  int                 `json:"failed_count"`
}

// RefreshService re-resolves live scores across the fixture set with a
// bounded worker pool. It is the external refresh policy the resolver's
// cache-is-authoritative rule defers to.
type RefreshService struct {
	fixtureRepo fixture.Repository
	liveScores  *LiveScoreService
	publisher   JobPublisher
	idGen       id.Generator
	workerCount int
	logger      *logging.Logger
}

func NewRefreshService(
	fixtureRepo fixture.Repository,
	liveScores *LiveScoreService,
	publisher JobPublisher,
	idGen id.Generator,
	workerCount int,
	logger *logging.Logger,
) *RefreshService {
	if workerCount <= 0 {
		workerCount = defaultRefreshWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RefreshService{
		fixtureRepo: fixtureRepo,
		liveScores:  liveScores,
		publisher:   publisher,
		idGen:       idGen,
		workerCount: workerCount,
		logger:      logger,
	}
}

// RefreshAll sweeps every fixture, scraping and upserting each one that has
// a live source. Fixtures without a slug are skipped, individual failures
// never abort the sweep, and the worker pool bounds upstream pressure.
func (s *RefreshService) RefreshAll(ctx context.Context, leagueCode string) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	var (
		fixtures []fixture.Fixture
		err      error
	)
	if leagueCode == "" {
		fixtures, err = s.fixtureRepo.ListAll(ctx)
	} else {
		fixtures, err = s.fixtureRepo.ListByLeague(ctx, leagueCode)
	}
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list fixtures: %w", err)
	}

	results := make(chan RefreshTaskResult, len(fixtures))

	var successCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, f := range fixtures {
		f := f
		key := f.CanonicalKey()
		if key == "" {
			continue
		}

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{
				MatchKey: key,
				League:   f.League,
			}

			switch {
			case f.Slug == "":
				row.Status = refreshStatusSkipped
				row.Message = "fixture has no live source"
				skippedCount.Add(1)
			default:
				if _, refreshErr := s.liveScores.Refresh(ctx, key); refreshErr != nil {
					row.Status = refreshStatusFailed
					row.Message = refreshErr.Error()
					failedCount.Add(1)
				} else {
					row.Status = refreshStatusSuccess
					successCount.Add(1)
				}
			}

			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	var result RefreshResult
	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].League != result.Tasks[j].League {
			return result.Tasks[i].League < result.Tasks[j].League
		}
		return result.Tasks[i].MatchKey < result.Tasks[j].MatchKey
	})

	result.SuccessCount = int(successCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "live score refresh sweep finished",
		"league", leagueCode,
		"success", result.SuccessCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

// ScheduleRefresh enqueues a delayed refresh callback through the job queue.
func (s *RefreshService) ScheduleRefresh(ctx context.Context, leagueCode string, delay time.Duration) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.ScheduleRefresh")
	defer span.End()

	if s.publisher == nil {
		return fmt.Errorf("%w: job queue is not configured", ErrDependencyUnavailable)
	}

	dedupID := ""
	if s.idGen != nil {
		generated, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate deduplication id: %w", err)
		}
		dedupID = generated
	}

	payload := map[string]string{"league": leagueCode}
	if err := s.publisher.Enqueue(ctx, "/internal/jobs/refresh-live", payload, delay, dedupID); err != nil {
		return fmt.Errorf("enqueue refresh job: %w", err)
	}

	s.logger.InfoContext(ctx, "live score refresh scheduled", "league", leagueCode, "delay", delay.String())
	return nil
}
