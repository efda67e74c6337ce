package scorepage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/goalfeed/livescore-api/internal/platform/logging"
	"github.com/goalfeed/livescore-api/internal/platform/resilience"
)

const (
	defaultBaseURL  = "https://www.scorehub.live"
	maxDocumentSize = 4 << 20
)

var (
	// ErrPageNotFound means the source has no page for the slug.
	ErrPageNotFound = stderrors.New("score page not found")
	// ErrUpstream covers terminal non-2xx answers other than 404.
	ErrUpstream = stderrors.New("score page upstream failure")

	errScorePageTransient = crerr.New("score page transient failure")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches raw match pages from the external score site. It knows the
// URL template and the retry policy, nothing about the document's insides.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatchPage retrieves the HTML document for one match slug. Transport
// errors, 429 and 5xx are retried with a growing backoff; 404 maps to
// ErrPageNotFound and any other terminal non-2xx to ErrUpstream. Concurrent
// calls for the same slug collapse into one request.
func (c *Client) FetchMatchPage(ctx context.Context, slug string) ([]byte, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "score page circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: circuit open", ErrUpstream)
		}
	}

	fullURL := c.baseURL + "/match/" + slug + "/"

	out, err, _ := c.flight.Do(slug, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errScorePageTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected page payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "text/html")
		req.Header.Set("User-Agent", "livescore-api/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errScorePageTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errScorePageTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: url=%s", ErrPageNotFound, fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: status=%d", errScorePageTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: request failed", ErrUpstream)
	}
	c.logger.WarnContext(ctx, "score page request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// IsRetryable reports whether a fetch failure is worth retrying by the
// caller. Terminal 404s and non-retryable upstream answers are not.
func IsRetryable(err error) bool {
	return stderrors.Is(err, errScorePageTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
