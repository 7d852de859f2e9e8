// Package cms is the adapter for the content-management system. It
// normalizes CMS fixture payloads into usecase records and never treats
// ordinary absence as an error.
package cms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skanelive/matchcenter/internal/platform/logging"
	"github.com/skanelive/matchcenter/internal/platform/resilience"
	"github.com/skanelive/matchcenter/internal/usecase"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
)

var errCMSTransient = crerr.New("cms transient failure")
var errCMSNotFound = crerr.New("cms record not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
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
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetMatch looks a fixture up by slug or id. A CMS miss is reported as
// found=false with a nil error; a malformed record is discarded the same
// way rather than propagated.
func (c *Client) GetMatch(ctx context.Context, identifier string) (usecase.CMSMatchRecord, bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return usecase.CMSMatchRecord{}, false, fmt.Errorf("identifier is required")
	}

	var envelope struct {
		Data matchPayload `json:"data"`
	}
	err := c.doJSON(ctx, "/api/v2/matches/"+url.PathEscape(identifier), nil, &envelope)
	if crerr.Is(err, errCMSNotFound) {
		return usecase.CMSMatchRecord{}, false, nil
	}
	if err != nil {
		return usecase.CMSMatchRecord{}, false, fmt.Errorf("fetch cms match %s: %w", identifier, err)
	}

	rec, ok := mapMatchPayload(envelope.Data)
	if !ok {
		c.logger.WarnContext(ctx, "cms match record malformed, discarding", "identifier", identifier)
		return usecase.CMSMatchRecord{}, false, nil
	}

	return rec, true, nil
}

// GetTeamNews lists the latest CMS news entries for a team.
func (c *Client) GetTeamNews(ctx context.Context, teamID string, limit int) ([]usecase.NewsItem, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}
	if limit <= 0 {
		limit = 5
	}

	var envelope struct {
		Data []newsPayload `json:"data"`
	}
	query := map[string]string{"limit": strconv.Itoa(limit)}
	err := c.doJSON(ctx, "/api/v2/teams/"+url.PathEscape(teamID)+"/news", query, &envelope)
	if crerr.Is(err, errCMSNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch team news team=%s: %w", teamID, err)
	}

	items := make([]usecase.NewsItem, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		items = append(items, usecase.NewsItem{
			ID:          payload.ID.String(),
			Title:       payload.Title,
			Summary:     payload.Summary,
			URL:         payload.URL,
			PublishedAt: parseCMSTime(payload.PublishedAt),
		})
	}
	return items, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cms circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: cms is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errCMSTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode cms payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errCMSTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCMSTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, errCMSNotFound
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: cms status=%d", errCMSTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("cms status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("cms request failed")
	}
	c.logger.WarnContext(ctx, "cms request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
