// Package catalog talks to the two upstream content APIs: the legacy
// per-program service and the current profile-aware service. Every reply
// is parsed into typed models at this boundary; nothing downstream sees
// raw upstream payloads.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/telecast/mediatheque/internal/cache"
	"github.com/telecast/mediatheque/internal/config"
	"github.com/telecast/mediatheque/internal/logging"
	"github.com/telecast/mediatheque/internal/metrics"
	"github.com/telecast/mediatheque/pkg/models"
)

// ErrNoToken is returned when a personal-content call is made without a
// bearer token.
var ErrNoToken = errors.New("no bearer token")

// Upstream endpoint paths. The legacy service keeps program id before
// kind in the streams path.
const (
	legacyStreamsPath    = "/OPA/v3/streams/%s/%s/%s"
	legacyVideoPath      = "/OPA/v3/videos/%s/%s"
	legacyCollectionPath = "/EMAC/teasers/collection/v2/%s/%s"

	playerPath  = "/player/v2/config/%s/%s"
	programPath = "/emac/v4/%s/%s/programs/%s"

	tokenPath = "/sso/v3/token"

	historyPath      = "/sso/v3/lastvieweds/%s?page=%d&limit=%d"
	historySyncPath  = "/sso/v3/lastvieweds"
	historyPurgePath = "/sso/v3/lastvieweds/purge"

	favoritesPath      = "/sso/v3/favorites/%s?page=%d&limit=%d"
	favoriteAddPath    = "/sso/v3/favorites"
	favoriteRemovePath = "/sso/v3/favorites/%s"
	favoritesPurgePath = "/sso/v3/favorites/purge"
)

// Client wraps both upstream APIs behind one typed surface. Safe for
// concurrent use.
type Client struct {
	cfg  config.UpstreamConfig
	http *http.Client
	log  *logging.Logger
}

// NewClient creates a catalog client with the configured endpoints and
// timeout.
func NewClient(cfg config.UpstreamConfig, log *logging.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HistoryPage <= 0 {
		cfg.HistoryPage = 50
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// legacyHeaders returns the header set for the legacy service.
func (c *Client) legacyHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.cfg.UserAgent)
	return h
}

// baseHeaders returns the anonymous header set for the current service.
func (c *Client) baseHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.cfg.UserAgent)
	h.Set("Authorization", c.cfg.AppToken)
	h.Set("Client", c.cfg.Client)
	h.Set("Accept", "application/json")
	return h
}

// authHeaders injects the bearer token on top of the anonymous headers.
// The client identifier is forced to web: the profile service rejects a
// reused token under any other client identifier.
func (c *Client) authHeaders(token *cache.Token) (http.Header, error) {
	if token == nil || token.AccessToken == "" {
		return nil, ErrNoToken
	}
	h := c.baseHeaders()
	h.Set("Authorization", fmt.Sprintf("%s %s", token.TokenType, token.AccessToken))
	h.Set("Client", "web")
	return h, nil
}

// getJSON performs a GET and decodes the JSON reply into out.
func (c *Client) getJSON(ctx context.Context, scope, requestURL string, headers http.Header, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", scope, err)
	}
	req.Header = headers

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordUpstreamRequest(scope, elapsed.Seconds(), true)
		c.log.LogUpstreamReply(scope, requestURL, 0, elapsed, err)
		return fmt.Errorf("%s: %w: %v", scope, models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(scope, elapsed.Seconds(), resp.StatusCode >= http.StatusInternalServerError)
	c.log.LogUpstreamReply(scope, requestURL, resp.StatusCode, elapsed, nil)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", scope, models.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: status %d: %w", scope, resp.StatusCode, models.ErrUpstreamUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode reply: %w", scope, err)
	}
	return nil
}

// send performs a form-encoded write call and returns the HTTP status
// code. The reply body is decoded into out when out is non-nil and the
// call succeeded. Transport failures return status 0.
func (c *Client) send(ctx context.Context, scope, method, requestURL string, headers http.Header, form url.Values, out interface{}) (int, error) {
	if form == nil {
		form = url.Values{}
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", scope, err)
	}
	req.Header = headers
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordUpstreamRequest(scope, elapsed.Seconds(), true)
		c.log.LogUpstreamReply(scope, requestURL, 0, elapsed, err)
		return 0, fmt.Errorf("%s: %w: %v", scope, models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.RecordUpstreamRequest(scope, elapsed.Seconds(), resp.StatusCode >= http.StatusInternalServerError)
	c.log.LogUpstreamReply(scope, requestURL, resp.StatusCode, elapsed, nil)

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s: decode reply: %w", scope, err)
		}
	}
	return resp.StatusCode, nil
}
