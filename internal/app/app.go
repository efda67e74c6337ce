package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/goalfeed/livescore-api/external/scorepage"
	"github.com/goalfeed/livescore-api/internal/config"
	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/league"
	"github.com/goalfeed/livescore-api/internal/domain/livescore"
	"github.com/goalfeed/livescore-api/internal/domain/team"
	"github.com/goalfeed/livescore-api/internal/infrastructure/jobqueue"
	cacherepo "github.com/goalfeed/livescore-api/internal/infrastructure/repository/cache"
	"github.com/goalfeed/livescore-api/internal/infrastructure/repository/jsonfile"
	"github.com/goalfeed/livescore-api/internal/infrastructure/repository/memory"
	"github.com/goalfeed/livescore-api/internal/infrastructure/repository/postgres"
	"github.com/goalfeed/livescore-api/internal/interfaces/httpapi"
	basecache "github.com/goalfeed/livescore-api/internal/platform/cache"
	idgen "github.com/goalfeed/livescore-api/internal/platform/id"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
	"github.com/goalfeed/livescore-api/internal/platform/resilience"
	"github.com/goalfeed/livescore-api/internal/usecase"
)

// Application bundles the wired object graph both binaries start from.
type Application struct {
	Config       config.Config
	Logger       *logging.Logger
	AliasTable   *fixture.AliasTable
	FixtureIndex *usecase.FixtureIndexService
	LiveScores   *usecase.LiveScoreService
	Matches      *usecase.MatchService
	Refresh      *usecase.RefreshService
	LeagueRepo   league.Repository
	TeamRepo     team.Repository
	FixtureRepo  fixture.Repository

	db *sqlx.DB
}

// Build wires repositories, external clients and services, then performs the
// initial alias-index build so the server never answers from an empty table.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	source := jsonfile.NewSource(cfg.DataDir, logger)
	var (
		leagueRepo  league.Repository  = jsonfile.NewLeagueRepository(source)
		teamRepo    team.Repository    = jsonfile.NewTeamRepository(source)
		fixtureRepo fixture.Repository = jsonfile.NewFixtureRepository(source)
	)
	var invalidateFeed func(ctx context.Context)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, store)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, store)
		fixtureRepo = cacherepo.NewFixtureRepository(fixtureRepo, store)
		invalidateFeed = func(ctx context.Context) {
			cacherepo.Invalidate(ctx, store)
		}
	}

	var (
		db    *sqlx.DB
		store livescore.Store
	)
	switch cfg.LiveStoreDriver {
	case config.LiveStoreMemory:
		store = memory.NewLiveScoreRepository()
		logger.Info("live score store using in-memory driver")
	default:
		opened, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open live score store: %w", err)
		}
		db = opened
		store = postgres.NewLiveScoreRepository(db)
	}

	pageClient := scorepage.NewClient(scorepage.ClientConfig{
		BaseURL:    cfg.ScorePageBaseURL,
		Timeout:    cfg.ScorePageTimeout,
		MaxRetries: cfg.ScorePageMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ScorePageCircuitEnabled,
			FailureThreshold: cfg.ScorePageCircuitFailureCount,
			OpenTimeout:      cfg.ScorePageCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ScorePageCircuitHalfOpenMaxReq,
		},
	})

	var publisher usecase.JobPublisher
	if cfg.QStashEnabled {
		publisher = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	aliasTable := fixture.NewAliasTable(nil)
	fixtureIndex := usecase.NewFixtureIndexService(fixtureRepo, aliasTable, invalidateFeed, logger)
	if _, err := fixtureIndex.Rebuild(ctx); err != nil {
		return nil, fmt.Errorf("build alias index: %w", err)
	}

	liveScores := usecase.NewLiveScoreService(aliasTable, store, pageClient, scorepage.Extract, logger)
	matches := usecase.NewMatchService(leagueRepo, teamRepo, fixtureRepo, aliasTable)
	refresh := usecase.NewRefreshService(fixtureRepo, liveScores, publisher, idgen.NewRandomGenerator(), cfg.RefreshWorkers, logger)

	return &Application{
		Config:       cfg,
		Logger:       logger,
		AliasTable:   aliasTable,
		FixtureIndex: fixtureIndex,
		LiveScores:   liveScores,
		Matches:      matches,
		Refresh:      refresh,
		LeagueRepo:   leagueRepo,
		TeamRepo:     teamRepo,
		FixtureRepo:  fixtureRepo,
		db:           db,
	}, nil
}

// HTTPServer builds the public server around the wired services.
func (a *Application) HTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Matches, a.LiveScores, a.Refresh, a.FixtureIndex, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins, a.Config.InternalJobToken)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
