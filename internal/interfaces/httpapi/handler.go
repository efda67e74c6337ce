package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
	"github.com/goalfeed/livescore-api/internal/usecase"
)

type Handler struct {
	matchService        *usecase.MatchService
	liveScoreService    *usecase.LiveScoreService
	refreshService      *usecase.RefreshService
	fixtureIndexService *usecase.FixtureIndexService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	liveScoreService *usecase.LiveScoreService,
	refreshService *usecase.RefreshService,
	fixtureIndexService *usecase.FixtureIndexService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:        matchService,
		liveScoreService:    liveScoreService,
		refreshService:      refreshService,
		fixtureIndexService: fixtureIndexService,
		logger:              logger,
		validator:           validator.New(),
	}
}
