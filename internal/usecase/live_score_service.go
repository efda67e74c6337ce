package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goalfeed/livescore-api/internal/domain/fixture"
	"github.com/goalfeed/livescore-api/internal/domain/livescore"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
)

// PageFetcher retrieves the raw HTML document for one match slug.
type PageFetcher interface {
	FetchMatchPage(ctx context.Context, slug string) ([]byte, error)
}

// ExtractFunc runs the extraction cascade against a fetched document.
type ExtractFunc func(document []byte, slug string) (livescore.RawScore, error)

// LiveScoreService resolves any match identifier to a live-score record
// using cache-aside against the durable store with a scrape fallback.
type LiveScoreService struct {
	aliases *fixture.AliasTable
	store   livescore.Store
	fetcher PageFetcher
	extract ExtractFunc
	logger  *logging.Logger
	now     func() time.Time
}

func NewLiveScoreService(
	aliases *fixture.AliasTable,
	store livescore.Store,
	fetcher PageFetcher,
	extract ExtractFunc,
	logger *logging.Logger,
) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LiveScoreService{
		aliases: aliases,
		store:   store,
		fetcher: fetcher,
		extract: extract,
		logger:  logger,
		now:     time.Now,
	}
}

// Resolve maps the identifier to its canonical key and returns the stored
// record when one exists, otherwise scrapes, normalizes and back-fills the
// store. A failed store write is logged and swallowed: the freshly computed
// record is still the answer.
func (s *LiveScoreService) Resolve(ctx context.Context, identifier string) (livescore.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.Resolve")
	defer span.End()

	ref, err := s.resolveAlias(identifier)
	if err != nil {
		return livescore.Record{}, err
	}

	if record, hit := s.lookupStore(ctx, ref.CanonicalKey); hit {
		return record, nil
	}

	return s.refresh(ctx, ref)
}

// Refresh skips the store read and always scrapes, so a scheduled job can
// repair stale or terminal records the resolver would otherwise trust
// forever. The result is still written back through the store.
func (s *LiveScoreService) Refresh(ctx context.Context, identifier string) (livescore.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.Refresh")
	defer span.End()

	ref, err := s.resolveAlias(identifier)
	if err != nil {
		return livescore.Record{}, err
	}

	return s.refresh(ctx, ref)
}

func (s *LiveScoreService) resolveAlias(identifier string) (fixture.Ref, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fixture.Ref{}, fmt.Errorf("%w: match identifier is required", ErrInvalidInput)
	}

	ref, ok := s.aliases.Resolve(identifier)
	if !ok {
		return fixture.Ref{}, fmt.Errorf("%w: match=%s", ErrNotFound, identifier)
	}
	return ref, nil
}

// lookupStore treats every store failure as a miss. A malformed row is
// expected to be repaired by the refresh that follows; an unavailable store
// must not take resolution down with it.
func (s *LiveScoreService) lookupStore(ctx context.Context, key string) (livescore.Record, bool) {
	record, found, err := s.store.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, livescore.ErrMalformedRecord) {
			s.logger.WarnContext(ctx, "stored live score is malformed, refreshing", "key", key, "error", err)
		} else {
			s.logger.WarnContext(ctx, "live score store read failed, falling back to scrape", "key", key, "error", err)
		}
		return livescore.Record{}, false
	}
	return record, found
}

func (s *LiveScoreService) refresh(ctx context.Context, ref fixture.Ref) (livescore.Record, error) {
	if ref.Slug == "" {
		return livescore.Record{}, fmt.Errorf("%w: key=%s", ErrNoLiveSource, ref.CanonicalKey)
	}

	document, err := s.fetcher.FetchMatchPage(ctx, ref.Slug)
	if err != nil {
		return livescore.Record{}, fmt.Errorf("%w: fetch slug=%s: %v", ErrLiveUnavailable, ref.Slug, err)
	}

	raw, err := s.extract(document, ref.Slug)
	if err != nil {
		// Usually means the upstream page structure changed; the slug is
		// what an operator needs to follow up.
		s.logger.ErrorContext(ctx, "score extraction exhausted all strategies", "slug", ref.Slug, "key", ref.CanonicalKey, "error", err)
		return livescore.Record{}, fmt.Errorf("%w: extract slug=%s: %v", ErrLiveUnavailable, ref.Slug, err)
	}

	now := s.now().UTC()
	status, minute, score := livescore.Normalize(raw, ref.Fixture.KickoffAt, now)
	record := livescore.Record{
		Key:       ref.CanonicalKey,
		Status:    status,
		Minute:    minute,
		Score:     score,
		UpdatedAt: now,
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "live score store write failed", "key", record.Key, "error", err)
	}

	return record, nil
}
