package scorepage

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"

	"github.com/goalfeed/livescore-api/internal/domain/livescore"
)

// ErrExtractionFailed means every strategy ran and none produced a full
// score. The page layout most likely changed upstream.
var ErrExtractionFailed = errors.New("score extraction failed")

const embeddedStateMarker = "window.__INITIAL_STATE__"

type strategy func(doc *goquery.Document, slug string) (livescore.RawScore, error)

// Extract runs the strategy cascade against a fetched match page. Strategies
// run in fixed order; any internal failure skips to the next one. Partial
// fields merge forward, so the result can be stitched together across
// strategies. The cascade succeeds as soon as the merged result carries both
// scores; exhausting every strategy without one is ErrExtractionFailed.
func Extract(document []byte, slug string) (livescore.RawScore, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return livescore.RawScore{}, fmt.Errorf("%w: parse document: %v", ErrExtractionFailed, err)
	}

	strategies := []strategy{
		extractFromSelectors,
		extractFromEmbeddedState,
		extractFromStructuredData,
	}

	var merged livescore.RawScore
	for _, extract := range strategies {
		partial, err := extract(doc, slug)
		if err != nil {
			continue
		}
		merged = merged.Merge(partial)
		if merged.HasFullScore() {
			return merged, nil
		}
	}

	if !merged.HasFullScore() {
		return livescore.RawScore{}, fmt.Errorf("%w: slug=%s", ErrExtractionFailed, slug)
	}
	return merged, nil
}

// extractFromSelectors reads score, status and clock by structural position.
// Fastest path, least stable: any layout change upstream silently breaks it,
// which is why the cascade exists.
func extractFromSelectors(doc *goquery.Document, _ string) (livescore.RawScore, error) {
	var raw livescore.RawScore

	scoreSpans := doc.Find("div.matchScore span.matchScore__side")
	if scoreSpans.Length() >= 2 {
		raw.HomeScore = parseScoreText(scoreSpans.Eq(0).Text())
		raw.AwayScore = parseScoreText(scoreSpans.Eq(1).Text())
	}

	raw.StatusText = strings.TrimSpace(doc.Find("div.matchHeader span.matchHeader__status").First().Text())
	raw.MinuteText = strings.TrimSpace(doc.Find("div.matchHeader span.matchHeader__clock").First().Text())

	if raw == (livescore.RawScore{}) {
		return livescore.RawScore{}, errors.New("no score nodes found")
	}
	return raw, nil
}

type embeddedState struct {
	Events []embeddedEvent `json:"events"`
}

type embeddedEvent struct {
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	Minute    string `json:"minute"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
}

// extractFromEmbeddedState locates the client-side initial-state blob the
// page ships for its own frontend and reads the event matching the slug.
func extractFromEmbeddedState(doc *goquery.Document, slug string) (livescore.RawScore, error) {
	var payload string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		idx := strings.Index(text, embeddedStateMarker)
		if idx < 0 {
			return true
		}
		rest := text[idx+len(embeddedStateMarker):]
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return true
		}
		payload = strings.TrimSuffix(strings.TrimSpace(rest[eq+1:]), ";")
		return false
	})
	if payload == "" {
		return livescore.RawScore{}, errors.New("no embedded state payload")
	}

	var state embeddedState
	if err := sonic.Unmarshal([]byte(payload), &state); err != nil {
		return livescore.RawScore{}, fmt.Errorf("decode embedded state: %w", err)
	}

	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, event := range state.Events {
		if strings.ToLower(strings.TrimSpace(event.Slug)) != slug {
			continue
		}
		return livescore.RawScore{
			HomeScore:  event.HomeScore,
			AwayScore:  event.AwayScore,
			StatusText: event.Status,
			MinuteText: event.Minute,
		}, nil
	}

	return livescore.RawScore{}, fmt.Errorf("embedded state has no event for slug %s", slug)
}

type structuredEvent struct {
	Type        string `json:"@type"`
	MatchStatus string `json:"matchStatus"`
	MatchMinute string `json:"matchMinute"`
	HomeScore   *int   `json:"homeScore"`
	AwayScore   *int   `json:"awayScore"`
}

// extractFromStructuredData reads the JSON-LD SportsEvent block. Slowest to
// update upstream but the most stable shape, so it anchors the cascade.
func extractFromStructuredData(doc *goquery.Document, _ string) (livescore.RawScore, error) {
	var (
		found bool
		raw   livescore.RawScore
	)

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var event structuredEvent
		if err := sonic.Unmarshal([]byte(s.Text()), &event); err != nil {
			return true
		}
		if !strings.EqualFold(event.Type, "SportsEvent") {
			return true
		}

		raw = livescore.RawScore{
			HomeScore:  event.HomeScore,
			AwayScore:  event.AwayScore,
			StatusText: event.MatchStatus,
			MinuteText: event.MatchMinute,
		}
		found = true
		return false
	})

	if !found {
		return livescore.RawScore{}, errors.New("no SportsEvent structured data")
	}
	return raw, nil
}

func parseScoreText(text string) *int {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil || value < 0 {
		return nil
	}
	return &value
}
