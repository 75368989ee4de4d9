/*
Package insight fetches and normalizes NASA InSight Mars weather data.

The Fetcher issues a single GET per call through a circuit breaker; the
Normalizer flattens the nested per-sol document into models.WeatherFields
using the Document path accessors.
*/
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/config"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/version"
)

// Fetcher retrieves the raw InSight weather document.
type Fetcher interface {
	Fetch(ctx context.Context) (*Response, error)
}

// Response is one InSight reply: the decoded document and the exact bytes
// it was decoded from, which the audit log stores verbatim.
type Response struct {
	Document Document
	Body     json.RawMessage
}

var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrNetwork       = errors.New("network failure")
	ErrRateLimited   = errors.New("rate limited")
	ErrRemote        = errors.New("remote error")
	ErrParse         = errors.New("malformed response")
	ErrCircuitOpen   = errors.New("circuit breaker open")
)

// Client is the InSight weather API Fetcher.
type Client struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewClient builds a Client for {base}/insight_weather/.
func NewClient(cfg config.InsightConfig, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	endpoint, err := buildEndpoint(cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	logger = observability.OrNop(logger)

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = config.DefaultBreakerFailures
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "insight",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		endpoint: endpoint,
		timeout:  cfg.Timeout,
		client:   &http.Client{Timeout: cfg.Timeout},
		breaker:  breaker,
		logger:   logger,
	}, nil
}

// buildEndpoint renders {base}/insight_weather/?api_key={key}&feedtype=json&ver=1.0.
func buildEndpoint(base, apiKey string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/insight_weather/")
	if err != nil {
		return "", fmt.Errorf("invalid API URL: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("feedtype", "json")
	params.Set("ver", "1.0")
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// Fetch performs one GET and returns the decoded document with its body.
// Every failure is logged and returned wrapped in one of the package sentinels.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	c.logger.Info("querying InSight weather API")

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.callAPI(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		c.logger.Error("InSight request failed",
			zap.String("category", string(CategorizeError(err))),
			zap.Error(err))
		return nil, err
	}

	resp, ok := result.(*Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", ErrParse)
	}
	c.logger.Info("InSight data retrieved",
		zap.Int("sol_keys", len(resp.Document.Strings("sol_keys"))),
		zap.Int("bytes", len(resp.Body)))
	return resp, nil
}

func (c *Client) callAPI(ctx context.Context) (*Response, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		observability.InsightCallsTotal.WithLabelValues("error").Inc()
		observability.InsightDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: request timeout: %w", ErrNetwork, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	status := observability.StatusLabel(resp.StatusCode)
	observability.InsightCallsTotal.WithLabelValues(status).Inc()
	observability.InsightDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err := handleErrorResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrNetwork, err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrParse, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrParse)
	}
	return &Response{Document: doc, Body: body}, nil
}

func handleErrorResponse(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w: HTTP %d", ErrRemote, ErrInvalidAPIKey, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: HTTP %d", ErrRemote, resp.StatusCode)
	}
	return nil
}
