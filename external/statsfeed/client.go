// Package statsfeed talks to the upstream sports-data provider. One fetch
// method per feed kind, each going through the shared read-through cache so
// concurrent requests for the same feed+parameters share a single upstream
// call.
package statsfeed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/platform/cache"
	"github.com/sportserve/matchcenter/internal/platform/logging"
	"github.com/sportserve/matchcenter/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://feeds.sportsdataprovider.com/v2"
	maxFeedBodyBytes = 6 << 20
	sourceName       = "statsfeed"
)

var credentialParamRegex = regexp.MustCompile(`(user|psw)=[^&\s"']+`)

// FeedTTLs are per-feed cache freshness windows; live-adjacent feeds expire
// in seconds, slow-moving ones in minutes.
type FeedTTLs struct {
	Fixtures    time.Duration
	Standings   time.Duration
	MatchDetail time.Duration
	Commentary  time.Duration
	SeasonStats time.Duration
	Squads      time.Duration
}

func DefaultFeedTTLs() FeedTTLs {
	return FeedTTLs{
		Fixtures:    time.Minute,
		Standings:   2 * time.Minute,
		MatchDetail: 15 * time.Second,
		Commentary:  15 * time.Second,
		SeasonStats: 5 * time.Minute,
		Squads:      10 * time.Minute,
	}
}

func (t FeedTTLs) normalized() FeedTTLs {
	defaults := DefaultFeedTTLs()
	if t.Fixtures <= 0 {
		t.Fixtures = defaults.Fixtures
	}
	if t.Standings <= 0 {
		t.Standings = defaults.Standings
	}
	if t.MatchDetail <= 0 {
		t.MatchDetail = defaults.MatchDetail
	}
	if t.Commentary <= 0 {
		t.Commentary = defaults.Commentary
	}
	if t.SeasonStats <= 0 {
		t.SeasonStats = defaults.SeasonStats
	}
	if t.Squads <= 0 {
		t.Squads = defaults.Squads
	}
	return t
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	TTLs           FeedTTLs
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Archive receives a copy of every fresh (non-cached) payload; nil
	// disables archiving. Failures are logged, never surfaced.
	Archive snapshot.Repository
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	username       string
	password       string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	store          *cache.Store
	ttls           FeedTTLs
	archive        snapshot.Repository
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
		// Copy before defaulting so the caller's client is left alone.
		clone := *httpClient
		clone.Timeout = 10 * time.Second
		httpClient = &clone
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	ttls := cfg.TTLs.normalized()

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		username:       strings.TrimSpace(cfg.Username),
		password:       strings.TrimSpace(cfg.Password),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeBudget),
		circuitEnabled: breakerCfg.Enabled,
		store:          cache.NewStore(ttls.Fixtures),
		ttls:           ttls,
		archive:        cfg.Archive,
	}
}

// doFeed fetches one feed document, serving from cache inside the freshness
// window. No retry happens here and a timeout reads as unavailable.
func (c *Client) doFeed(ctx context.Context, feed, path string, params url.Values, ttl time.Duration, meta snapshot.Payload) ([]byte, error) {
	key := feed + "?" + params.Encode()

	value, err := c.store.GetOrLoadTTL(ctx, key, ttl, func(ctx context.Context) (any, error) {
		raw, loadErr := c.executeRequest(ctx, feed, path, params)
		if loadErr != nil {
			return nil, loadErr
		}
		c.archivePayload(feed, key, raw, meta)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	raw, ok := value.([]byte)
	if !ok {
		return nil, crerr.Newf("unexpected cached payload type %T", value)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, feed, path string, params url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "feed", feed, "state", c.breaker.State())
			return nil, crerr.Mark(err, ErrFeedUnavailable)
		}
	}

	values := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	values.Set("user", c.username)
	values.Set("psw", c.password)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.send(ctx, feed, fullURL)
	if c.circuitEnabled {
		if err != nil && ctx.Err() == nil {
			c.breaker.RecordFailure()
		} else if err == nil {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "feed request failed", "feed", feed, "url", redactCredentials(fullURL), "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) send(ctx context.Context, feed, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build feed request")
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(feed, crerr.New(redactCredentials(err.Error())))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, transportErr(feed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, unavailableErr(feed, resp.StatusCode)
	}
	return raw, nil
}

// decodeFeed unmarshals a feed document; anything xml rejects reads as
// malformed, never as a panic further down.
func decodeFeed(feed string, raw []byte, target any) error {
	if err := xml.Unmarshal(raw, target); err != nil {
		return malformedErr(feed, err)
	}
	return nil
}

func (c *Client) archivePayload(feed, key string, raw []byte, meta snapshot.Payload) {
	if c.archive == nil {
		return
	}

	sum := sha256.Sum256(raw)
	meta.Source = sourceName
	meta.FeedKind = feed
	meta.ParamsKey = key
	meta.Body = string(raw)
	meta.BodyHash = hex.EncodeToString(sum[:])
	meta.FetchedAt = time.Now().UTC()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.archive.UpsertMany(ctx, []snapshot.Payload{meta}); err != nil {
			c.logger.Warn("archive feed payload failed", "feed", feed, "error", err)
		}
	}()
}

func redactCredentials(value string) string {
	return credentialParamRegex.ReplaceAllString(value, "$1=REDACTED")
}
