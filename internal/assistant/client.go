package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/config"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/version"
)

// User-facing answers for the failure branches of Ask.
const (
	RateLimitedMessage = "Assistant quota exceeded (HTTP 429). Check your plan or try again later."
	NoContentMessage   = "The assistant returned no content."

	maxErrorBodyChars = 300
)

// ErrMissingAPIKey is returned by New when no assistant API key is configured.
var ErrMissingAPIKey = errors.New("assistant API key is required (set GEMINI_API_KEY)")

const instruction = "You are an assistant that answers questions about Mars weather using ONLY " +
	"the information in the provided context. If something is not in the context, say " +
	"clearly that there is no data for it. Keep answers concise and clear."

// Client sends questions, grounded on the stored data, to a generateContent endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	temperature float64
	maxTokens   int
	maxRows     int
	language    string
	client      *http.Client
	limiter     *rate.Limiter
	builder     *ContextBuilder
	logger      *zap.Logger
}

// New creates a Client. It fails when the API key is empty.
func New(cfg config.AssistantConfig, builder *ContextBuilder, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if builder == nil {
		return nil, errors.New("assistant: context builder is required")
	}
	endpoint, err := url.JoinPath(cfg.BaseURL, "models", cfg.Model+":generateContent")
	if err != nil {
		return nil, fmt.Errorf("invalid assistant URL: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		maxRows:     cfg.MaxContextRows,
		language:    cfg.Language,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     limiter,
		builder:     builder,
		logger:      observability.OrNop(logger),
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Prompt combines the fixed instruction, the digest and the question into one text.
func (c *Client) Prompt(digest, question string) string {
	return fmt.Sprintf("%s Answer in %s.\n\nContext:\n%s\n\nQuestion: %s\nAnswer in %s:",
		instruction, c.language, digest, question, c.language)
}

// Digest returns the grounding text a question asked now would carry.
func (c *Client) Digest(ctx context.Context) string {
	return c.builder.Build(ctx, c.maxRows)
}

// Ask answers question from a freshly built digest. Every outcome, including
// failures, is returned as text.
func (c *Client) Ask(ctx context.Context, question string) string {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Sprintf("Request to the assistant was cancelled: %v", err)
		}
	}

	digest := c.Digest(ctx)
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: c.Prompt(digest, question)}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return fmt.Sprintf("Could not build the assistant request: %v", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Sprintf("Could not build the assistant request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.client.Do(req)
	if err != nil {
		observability.AssistantCallsTotal.WithLabelValues("error").Inc()
		observability.AssistantDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		c.logger.Error("assistant request failed", zap.Error(err))
		return fmt.Sprintf("Network error querying the assistant: %v", err)
	}
	defer resp.Body.Close()

	status := observability.StatusLabel(resp.StatusCode)
	observability.AssistantCallsTotal.WithLabelValues(status).Inc()
	observability.AssistantDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	// The body of a 429 is never read: the answer does not depend on it.
	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("assistant rate limited")
		return RateLimitedMessage
	}

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		// A truncated error body is shown as far as it was read.
		c.logger.Warn("assistant returned an error", zap.Int("status", resp.StatusCode))
		return fmt.Sprintf("Error querying the assistant (%d): %s", resp.StatusCode, errorDetail(body))
	}

	if err != nil {
		c.logger.Error("failed to read assistant response", zap.Error(err))
		return fmt.Sprintf("Network error querying the assistant: %v", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("malformed assistant response", zap.Error(err))
		return fmt.Sprintf("Could not parse the assistant response: %v", err)
	}
	return answerText(parsed)
}

// answerText joins the non-empty text parts of the first candidate.
func answerText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return NoContentMessage
	}
	var texts []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	answer := strings.TrimSpace(strings.Join(texts, "\n"))
	if answer == "" {
		return NoContentMessage
	}
	return answer
}

// errorDetail returns the body as compact JSON, or its first 300 characters.
func errorDetail(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	runes := []rune(string(body))
	if len(runes) > maxErrorBodyChars {
		runes = runes[:maxErrorBodyChars]
	}
	return string(runes)
}
