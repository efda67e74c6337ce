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

type fakeStore struct {
	records    map[string]livescore.Record
	getErr     error
	upsertErr  error
	getCalls   int
	upsertKeys []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]livescore.Record{}}
}

func (s *fakeStore) GetByKey(_ context.Context, key string) (livescore.Record, bool, error) {
	s.getCalls++
	if s.getErr != nil {
		return livescore.Record{}, false, s.getErr
	}
	record, ok := s.records[key]
	return record, ok, nil
}

func (s *fakeStore) Upsert(_ context.Context, record livescore.Record) error {
	s.upsertKeys = append(s.upsertKeys, record.Key)
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.records[record.Key] = record
	return nil
}

type fakeFetcher struct {
	document []byte
	err      error
	calls    int
}

func (f *fakeFetcher) FetchMatchPage(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.document, nil
}

func liveTestTable(t *testing.T, fixtures ...fixture.Fixture) *fixture.AliasTable {
	t.Helper()
	if len(fixtures) == 0 {
		fixtures = []fixture.Fixture{{
			League:    "premier-league",
			HomeTeam:  "ARS",
			AwayTeam:  "CHE",
			KickoffAt: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
			Slug:      "arsenal-chelsea",
		}}
	}
	idx, dups := fixture.BuildIndex(fixtures)
	if len(dups) != 0 {
		t.Fatalf("unexpected duplicates: %v", dups)
	}
	return fixture.NewAliasTable(idx)
}

func fixedExtract(home, away int, status string) ExtractFunc {
	return func(_ []byte, _ string) (livescore.RawScore, error) {
		return livescore.RawScore{HomeScore: &home, AwayScore: &away, StatusText: status}, nil
	}
}

func newLiveService(table *fixture.AliasTable, store livescore.Store, fetcher PageFetcher, extract ExtractFunc) *LiveScoreService {
	svc := NewLiveScoreService(table, store, fetcher, extract, logging.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, 6, 6, 22, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestResolve_MissScrapesAndBackfills(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc := newLiveService(liveTestTable(t), store, fetcher, fixedExtract(2, 1, "FT"))

	record, err := svc.Resolve(context.Background(), "Arsenal-Chelsea")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.calls)
	}
	if record.Status != livescore.StatusFinished {
		t.Fatalf("status = %q, want finished", record.Status)
	}
	if record.Minute == nil || *record.Minute != livescore.EndOfRegulationMinute {
		t.Fatalf("minute = %v, want %d", record.Minute, livescore.EndOfRegulationMinute)
	}
	if *record.Score.Home != 2 || *record.Score.Away != 1 {
		t.Fatalf("score = %d-%d, want 2-1", *record.Score.Home, *record.Score.Away)
	}
	if len(store.upsertKeys) != 1 || store.upsertKeys[0] != record.Key {
		t.Fatalf("store writes = %v, want one write for %q", store.upsertKeys, record.Key)
	}

	// Second resolution answers from the store without touching the page.
	again, err := svc.Resolve(context.Background(), record.Key)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls after hit = %d, want 1", fetcher.calls)
	}
	if again.Status != record.Status || *again.Score.Home != *record.Score.Home {
		t.Fatalf("hit record %+v differs from stored %+v", again, record)
	}
}

func TestResolve_UnknownIdentifier(t *testing.T) {
	svc := newLiveService(liveTestTable(t), newFakeStore(), &fakeFetcher{}, fixedExtract(0, 0, ""))

	if _, err := svc.Resolve(context.Background(), "no-such-match"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Resolve(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestResolve_NoLiveSourceWithoutSlug(t *testing.T) {
	table := liveTestTable(t, fixture.Fixture{
		League:    "premier-league",
		HomeTeam:  "ARS",
		AwayTeam:  "CHE",
		KickoffAt: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
	})
	fetcher := &fakeFetcher{}
	svc := newLiveService(table, newFakeStore(), fetcher, fixedExtract(0, 0, ""))

	key := fixture.Fixture{
		League:    "premier-league",
		HomeTeam:  "ARS",
		AwayTeam:  "CHE",
		KickoffAt: time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC),
	}.CanonicalKey()

	if _, err := svc.Resolve(context.Background(), key); !errors.Is(err, ErrNoLiveSource) {
		t.Fatalf("err = %v, want ErrNoLiveSource", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetch calls = %d, a slugless fixture must not be fetched", fetcher.calls)
	}
}

func TestResolve_StoreWriteFailureStillAnswers(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = livescore.ErrStoreUnavailable
	svc := newLiveService(liveTestTable(t), store, &fakeFetcher{document: []byte("<html/>")}, fixedExtract(1, 0, "FT"))

	record, err := svc.Resolve(context.Background(), "arsenal-chelsea")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if *record.Score.Home != 1 {
		t.Fatalf("score home = %d, want 1", *record.Score.Home)
	}
}

func TestResolve_StoreReadErrorTreatedAsMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = livescore.ErrStoreUnavailable
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc := newLiveService(liveTestTable(t), store, fetcher, fixedExtract(0, 0, "FT"))

	if _, err := svc.Resolve(context.Background(), "arsenal-chelsea"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, want scrape fallback", fetcher.calls)
	}
}

func TestResolve_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc := newLiveService(liveTestTable(t), newFakeStore(), fetcher, fixedExtract(0, 0, ""))

	if _, err := svc.Resolve(context.Background(), "arsenal-chelsea"); !errors.Is(err, ErrLiveUnavailable) {
		t.Fatalf("err = %v, want ErrLiveUnavailable", err)
	}
}

func TestResolve_ExtractionFailureCachesNothing(t *testing.T) {
	store := newFakeStore()
	failing := func(_ []byte, _ string) (livescore.RawScore, error) {
		return livescore.RawScore{}, errors.New("layout changed")
	}
	svc := newLiveService(liveTestTable(t), store, &fakeFetcher{document: []byte("<html/>")}, failing)

	if _, err := svc.Resolve(context.Background(), "arsenal-chelsea"); !errors.Is(err, ErrLiveUnavailable) {
		t.Fatalf("err = %v, want ErrLiveUnavailable", err)
	}
	if len(store.upsertKeys) != 0 {
		t.Fatalf("store writes = %v, a failed extraction must cache nothing", store.upsertKeys)
	}
}

func TestRefresh_BypassesStoreRead(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{document: []byte("<html/>")}
	svc := newLiveService(liveTestTable(t), store, fetcher, fixedExtract(0, 0, ""))

	stale := livescore.Record{Key: "premier-league_2025-06-06t20:00:00z_ars_x_che", Status: livescore.StatusUpcoming}
	store.records[stale.Key] = stale

	record, err := svc.Refresh(context.Background(), "arsenal-chelsea")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch calls = %d, Refresh must always scrape", fetcher.calls)
	}
	if store.getCalls != 0 {
		t.Fatalf("store reads = %d, Refresh must skip the read", store.getCalls)
	}
	if record.Status != livescore.StatusInProgress {
		t.Fatalf("status = %q, want in_progress past kickoff", record.Status)
	}
}
