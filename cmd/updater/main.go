package main

import (
	"context"
	"flag"
	"os"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/goalfeed/livescore-api/internal/app"
	"github.com/goalfeed/livescore-api/internal/config"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

// The updater is the out-of-band refresh policy: it sweeps every league and
// re-scrapes each fixture, repairing records the resolver's cache-hit path
// would otherwise trust forever.
func main() {
	var (
		leagueFlag  = flag.String("league", "", "restrict the sweep to one league code")
		timeoutFlag = flag.Duration("timeout", 10*time.Minute, "overall sweep deadline")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("close app failed", "error", err)
		}
	}()

	codes, err := leagueCodes(ctx, application, *leagueFlag)
	if err != nil {
		logger.Error("list leagues", "error", err)
		os.Exit(1)
	}
	if len(codes) == 0 {
		logger.Warn("no leagues to refresh")
		return
	}

	var (
		wg      conc.WaitGroup
		success atomic.Int64
		skipped atomic.Int64
		failed  atomic.Int64
		errs    atomic.Int64
	)
	for _, code := range codes {
		code := code
		wg.Go(func() {
			result, err := application.Refresh.RefreshAll(ctx, code)
			if err != nil {
				errs.Add(1)
				logger.ErrorContext(ctx, "league refresh failed", "league", code, "error", err)
				return
			}
			success.Add(int64(result.SuccessCount))
			skipped.Add(int64(result.SkippedCount))
			failed.Add(int64(result.FailedCount))
			logger.InfoContext(ctx, "league refreshed",
				"league", code,
				"success", result.SuccessCount,
				"skipped", result.SkippedCount,
				"failed", result.FailedCount,
			)
		})
	}
	wg.Wait()

	logger.Info("refresh sweep finished",
		"leagues", len(codes),
		"success", success.Load(),
		"skipped", skipped.Load(),
		"failed", failed.Load(),
	)

	if errs.Load() > 0 {
		os.Exit(1)
	}
}

func leagueCodes(ctx context.Context, application *app.Application, only string) ([]string, error) {
	if only != "" {
		return []string{only}, nil
	}

	leagues, err := application.LeagueRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(leagues))
	for _, l := range leagues {
		codes = append(codes, l.Code)
	}
	return codes, nil
}
