// Package sportdata is the adapter for the external sports-data provider.
// All reads go through one request path with a circuit breaker, in-flight
// deduplication and bounded retries. API tokens never reach the logs.
package sportdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
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
	defaultRetries  = 2
	maxResponseSize = 8 << 20
	redactedToken   = "api_key=REDACTED"
)

var errTransient = crerr.New("sportdata transient failure")
var errProviderNotFound = crerr.New("sportdata record not found")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	retryBackoff   time.Duration
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
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = defaultRetries
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		retryBackoff:   backoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// doJSON performs one deduplicated GET against the provider and decodes the
// body into target. Identical concurrent requests share a single upstream
// call. A 404 surfaces as errProviderNotFound so callers can report absence
// without treating it as a failure.
func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportdata circuit breaker rejected request",
				"path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: sportdata is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	result, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return c.executeRequest(ctx, fullURL)
	})

	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else if err == nil || crerr.Is(err, errProviderNotFound) {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	raw, ok := result.([]byte)
	if !ok {
		return fmt.Errorf("unexpected in-flight result type %T", result)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode sportdata payload from %s: %w", redactURL(fullURL), err)
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

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, redactError(err))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, errProviderNotFound
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: sportdata status=%d", errTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("sportdata status=%d url=%s", resp.StatusCode, redactURL(fullURL))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("sportdata request failed")
	}
	c.logger.WarnContext(ctx, "sportdata request failed",
		"url", redactURL(fullURL), "error", redactError(lastErr))
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// redactURL strips the api_key value from a URL before it is logged or
// embedded in an error message.
func redactURL(fullURL string) string {
	parsed, err := url.Parse(fullURL)
	if err != nil {
		return "<unparseable url>"
	}
	values := parsed.Query()
	if values.Has("api_key") {
		values.Set("api_key", "REDACTED")
		parsed.RawQuery = values.Encode()
	}
	return parsed.String()
}

func redactError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.Index(msg, "api_key="); idx >= 0 {
		end := idx + len("api_key=")
		for end < len(msg) && msg[end] != '&' && msg[end] != '"' && msg[end] != ' ' {
			end++
		}
		msg = msg[:idx] + redactedToken + msg[end:]
	}
	return msg
}
