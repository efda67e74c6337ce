package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/livescore"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

type capturedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type fakePublisher struct {
	jobs []capturedJob
	err  error
}

func (p *fakePublisher) Enqueue(_ context.Context, path string, payload any, delay time.Duration, dedupID string) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, capturedJob{path: path, payload: payload, delay: delay, dedupID: dedupID})
	return nil
}

type staticIDGen struct{ id string }

func (g staticIDGen) NewID() (string, error) { return g.id, nil }

func refreshFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			League:    "premier-league",
			HomeTeam:  "ARS",
			AwayTeam:  "CHE",
			KickoffAt: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
			Slug:      "arsenal-chelsea",
		},
		{
			League:    "premier-league",
			HomeTeam:  "TOT",
			AwayTeam:  "AVL",
			KickoffAt: time.Date(2025, 6, 6, 17, 0, 0, 0, time.UTC),
			// No slug: nothing to scrape.
		},
		{
			League:    "la-liga",
			HomeTeam:  "RMA",
			AwayTeam:  "BAR",
			KickoffAt: time.Date(2025, 6, 6, 21, 0, 0, 0, time.UTC),
			Slug:      "real-madrid-barcelona",
		},
	}
}

func newRefreshService(t *testing.T, fixtures []fixture.Fixture, fetcher PageFetcher, extract ExtractFunc, publisher JobPublisher) (*RefreshService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	live := newLiveService(liveTestTable(t, fixtures...), store, fetcher, extract)
	repo := &fakeFixtureRepo{fixtures: fixtures}
	return NewRefreshService(repo, live, publisher, staticIDGen{id: "dedup-1"}, 2, logging.NewNop()), store
}

func TestRefreshAll_SweepsEveryFixture(t *testing.T) {
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc, store := newRefreshService(t, refreshFixtures(), fetcher, fixedExtract(1, 1, "FT"), nil)

	result, err := svc.RefreshAll(context.Background(), "")
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if result.SuccessCount != 2 || result.SkippedCount != 1 || result.FailedCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2 success 1 skipped 0 failed",
			result.SuccessCount, result.SkippedCount, result.FailedCount)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("tasks = %d, want 3", len(result.Tasks))
	}
	// Deterministic ordering: league, then match key.
	if result.Tasks[0].League != "la-liga" {
		t.Fatalf("tasks[0].League = %q, want la-liga first", result.Tasks[0].League)
	}
	for _, task := range result.Tasks {
		if task.Status == refreshStatusSkipped && task.Message == "" {
			t.Fatalf("skipped task %q has no message", task.MatchKey)
		}
	}
	if len(store.upsertKeys) != 2 {
		t.Fatalf("store writes = %v, want one per scraped fixture", store.upsertKeys)
	}
}

func TestRefreshAll_ScopedToLeague(t *testing.T) {
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc, _ := newRefreshService(t, refreshFixtures(), fetcher, fixedExtract(0, 0, "FT"), nil)

	result, err := svc.RefreshAll(context.Background(), "la-liga")
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].League != "la-liga" {
		t.Fatalf("tasks = %+v, want only la-liga", result.Tasks)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestRefreshAll_FailuresDoNotAbortSweep(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	svc, _ := newRefreshService(t, refreshFixtures(), fetcher, fixedExtract(0, 0, ""), nil)

	result, err := svc.RefreshAll(context.Background(), "")
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if result.FailedCount != 2 || result.SkippedCount != 1 {
		t.Fatalf("counts = %+v, want 2 failed 1 skipped", result)
	}
	for _, task := range result.Tasks {
		if task.Status == refreshStatusFailed && task.Message == "" {
			t.Fatalf("failed task %q carries no message", task.MatchKey)
		}
	}
}

func TestRefreshAll_ListFailure(t *testing.T) {
	store := newFakeStore()
	live := newLiveService(liveTestTable(t), store, &fakeFetcher{}, fixedExtract(0, 0, ""))
	repo := &fakeFixtureRepo{listErr: errors.New("feed unreadable")}
	svc := NewRefreshService(repo, live, nil, nil, 2, logging.NewNop())

	if _, err := svc.RefreshAll(context.Background(), ""); err == nil {
		t.Fatal("expected error when the fixture list is unavailable")
	}
}

func TestScheduleRefresh_EnqueuesCallback(t *testing.T) {
	publisher := &fakePublisher{}
	svc, _ := newRefreshService(t, refreshFixtures(), &fakeFetcher{}, fixedExtract(0, 0, ""), publisher)

	if err := svc.ScheduleRefresh(context.Background(), "premier-league", 30*time.Second); err != nil {
		t.Fatalf("ScheduleRefresh: %v", err)
	}
	if len(publisher.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(publisher.jobs))
	}
	job := publisher.jobs[0]
	if job.path != "/internal/jobs/refresh-live" {
		t.Fatalf("path = %q", job.path)
	}
	if job.delay != 30*time.Second {
		t.Fatalf("delay = %s", job.delay)
	}
	if job.dedupID != "dedup-1" {
		t.Fatalf("dedupID = %q", job.dedupID)
	}
	payload, ok := job.payload.(map[string]string)
	if !ok || payload["league"] != "premier-league" {
		t.Fatalf("payload = %v", job.payload)
	}
}

func TestScheduleRefresh_WithoutPublisher(t *testing.T) {
	svc, _ := newRefreshService(t, refreshFixtures(), &fakeFetcher{}, fixedExtract(0, 0, ""), nil)

	err := svc.ScheduleRefresh(context.Background(), "", time.Minute)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("err = %v, want ErrDependencyUnavailable", err)
	}
}

func TestRefreshAll_RecordsLandNormalized(t *testing.T) {
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc, store := newRefreshService(t, refreshFixtures()[:1], fetcher, fixedExtract(2, 0, "FT"), nil)

	if _, err := svc.RefreshAll(context.Background(), ""); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	key := refreshFixtures()[0].CanonicalKey()
	record, ok := store.records[key]
	if !ok {
		t.Fatalf("no record stored for %q", key)
	}
	if record.Status != livescore.StatusFinished || *record.Score.Home != 2 {
		t.Fatalf("record = %+v, want finished 2-0", record)
	}
}
