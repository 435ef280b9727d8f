// Package cms reads team and player documents from the content management
// system. The CMS is eventually consistent and may lag behind the feed; a
// missing document is an expected state, never an error.
package cms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sportserve/matchcenter/internal/domain/player"
	"github.com/sportserve/matchcenter/internal/domain/team"
	"github.com/sportserve/matchcenter/internal/platform/logging"
	"github.com/sportserve/matchcenter/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

const (
	DocTypeTeam       = "team"
	DocTypePlayer     = "player"
	DocTypeTournament = "tournament"

	maxResponseBytes = 4 << 20
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
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
		clone.Timeout = 5 * time.Second
		httpClient = &clone
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeBudget),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// TeamsByFeedIDs looks up team documents by their stored feed id. Teams the
// CMS does not know yet are simply missing from the result.
func (c *Client) TeamsByFeedIDs(ctx context.Context, feedIDs []string) ([]team.CMSRecord, error) {
	if len(feedIDs) == 0 {
		return []team.CMSRecord{}, nil
	}

	var decoded searchResponse
	if err := c.search(ctx, searchRequest{DocType: DocTypeTeam, FeedIDs: feedIDs}, &decoded); err != nil {
		return nil, err
	}

	out := make([]team.CMSRecord, 0, len(decoded.Documents))
	for _, doc := range decoded.Documents {
		if doc.UID == "" {
			continue
		}
		out = append(out, team.CMSRecord{
			UID:          doc.UID,
			Name:         doc.Data.Name,
			Short:        doc.Data.ShortName,
			Country:      doc.Data.Country,
			PrimaryColor: doc.Data.PrimaryColor,
			CrestURL:     doc.Data.CrestURL,
			FeedID:       doc.Data.FeedID,
		})
	}
	return out, nil
}

// TeamByUID fetches one team document; nil without error when unpublished.
func (c *Client) TeamByUID(ctx context.Context, uid string) (*team.CMSRecord, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("team uid is required")
	}

	var decoded searchResponse
	if err := c.search(ctx, searchRequest{DocType: DocTypeTeam, UID: uid}, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Documents) == 0 {
		return nil, nil
	}

	doc := decoded.Documents[0]
	return &team.CMSRecord{
		UID:          doc.UID,
		Name:         doc.Data.Name,
		Short:        doc.Data.ShortName,
		Country:      doc.Data.Country,
		PrimaryColor: doc.Data.PrimaryColor,
		CrestURL:     doc.Data.CrestURL,
		FeedID:       doc.Data.FeedID,
	}, nil
}

// PlayersByFeedIDs mirrors TeamsByFeedIDs for player documents.
func (c *Client) PlayersByFeedIDs(ctx context.Context, feedIDs []string) ([]player.CMSRecord, error) {
	if len(feedIDs) == 0 {
		return []player.CMSRecord{}, nil
	}

	var decoded searchResponse
	if err := c.search(ctx, searchRequest{DocType: DocTypePlayer, FeedIDs: feedIDs}, &decoded); err != nil {
		return nil, err
	}

	out := make([]player.CMSRecord, 0, len(decoded.Documents))
	for _, doc := range decoded.Documents {
		if doc.UID == "" {
			continue
		}
		out = append(out, player.CMSRecord{
			UID:      doc.UID,
			Name:     doc.Data.Name,
			PhotoURL: doc.Data.PhotoURL,
			FeedID:   doc.Data.FeedID,
		})
	}
	return out, nil
}

// DocumentsByType lists all published documents of one type.
func (c *Client) DocumentsByType(ctx context.Context, docType string) ([]Document, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, fmt.Errorf("document type is required")
	}

	var decoded searchResponse
	if err := c.search(ctx, searchRequest{DocType: docType}, &decoded); err != nil {
		return nil, err
	}
	return decoded.Documents, nil
}

func (c *Client) search(ctx context.Context, query searchRequest, target *searchResponse) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cms circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("cms temporarily unavailable: %w", err)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(query); err != nil {
		return fmt.Errorf("encode cms query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/documents/search", strings.NewReader(buf.String()))
	if err != nil {
		return fmt.Errorf("build cms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOutcome(ctx, false)
		return fmt.Errorf("request cms: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recordOutcome(ctx, false)
		return fmt.Errorf("read cms response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.recordOutcome(ctx, resp.StatusCode < 500)
		return fmt.Errorf("cms search failed with status %d", resp.StatusCode)
	}
	c.recordOutcome(ctx, true)

	if err := sonic.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode cms response: %w", err)
	}
	return nil
}

func (c *Client) recordOutcome(ctx context.Context, ok bool) {
	if !c.circuitEnabled {
		return
	}
	if ok {
		c.breaker.RecordSuccess()
		return
	}
	if ctx.Err() == nil {
		c.breaker.RecordFailure()
	}
}

type searchRequest struct {
	DocType string   `json:"doc_type"`
	UID     string   `json:"uid,omitempty"`
	FeedIDs []string `json:"feed_ids,omitempty"`
}

type searchResponse struct {
	Documents []Document `json:"documents"`
}

// Document is one published CMS document in its raw API shape.
type Document struct {
	ID   string       `json:"id"`
	UID  string       `json:"uid"`
	Type string       `json:"type"`
	Data documentData `json:"data"`
}

type documentData struct {
	Name         string `json:"name"`
	ShortName    string `json:"short_name"`
	Country      string `json:"country"`
	PrimaryColor string `json:"primary_color"`
	CrestURL     string `json:"crest_url"`
	PhotoURL     string `json:"photo_url"`
	FeedID       string `json:"feed_id"`
}
