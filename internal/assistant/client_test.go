package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/config"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
)

func testConfig(baseURL string) config.AssistantConfig {
	return config.AssistantConfig{
		BaseURL:         baseURL,
		APIKey:          "gemini-key",
		Model:           "gemini-2.0-flash",
		Temperature:     0.1,
		MaxOutputTokens: 400,
		Timeout:         2 * time.Second,
		MaxContextRows:  20,
		Language:        "English",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	reader := &fakeReader{
		records: []models.WeatherRecord{{Sol: 100, WeatherFields: models.WeatherFields{Temperature: f64(-65)}}},
		stats:   models.Statistics{Count: 1, MinSol: intp(100), MaxSol: intp(100), AvgTemperature: f64(-65)},
	}
	client, err := New(testConfig(server.URL), NewContextBuilder(reader, nil), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.APIKey = ""
	if _, err := New(cfg, NewContextBuilder(&fakeReader{}, nil), nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestAskSendsGroundedRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-goog-api-key"); got != "gemini-key" {
			t.Errorf("api key header = %q", got)
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("expected a single text part, got %+v", req.Contents)
		}
		text := req.Contents[0].Parts[0].Text
		for _, want := range []string{"ONLY", "Sol 100: Temp=-65", "Question: How cold is it?"} {
			if !strings.Contains(text, want) {
				t.Errorf("prompt missing %q:\n%s", want, text)
			}
		}
		if req.GenerationConfig.Temperature != 0.1 || req.GenerationConfig.MaxOutputTokens != 400 {
			t.Errorf("generationConfig = %+v", req.GenerationConfig)
		}

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  It is -65 °C."},{"text":""},{"text":"Sol 100 only. "}]}}]}`))
	})

	got := client.Ask(context.Background(), "How cold is it?")
	if want := "It is -65 °C.\nSol 100 only."; got != want {
		t.Errorf("Ask = %q, want %q", got, want)
	}
}

func TestAskResponses(t *testing.T) {
	longBody := strings.Repeat("x", 400)

	tests := []struct {
		name   string
		status int
		body   string
		want   string
		exact  bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"quota"}}`, RateLimitedMessage, true},
		{"json error", http.StatusBadRequest, "{\n  \"error\": {\"code\": 400}\n}", `Error querying the assistant (400): {"error":{"code":400}}`, true},
		{"text error", http.StatusBadGateway, longBody, "Error querying the assistant (502): " + longBody[:300], true},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, NoContentMessage, true},
		{"missing candidates", http.StatusOK, `{}`, NoContentMessage, true},
		{"blank text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`, NoContentMessage, true},
		{"malformed", http.StatusOK, `not json`, "Could not parse the assistant response", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got := client.Ask(context.Background(), "question")
			if tt.exact && got != tt.want {
				t.Errorf("Ask = %q, want %q", got, tt.want)
			}
			if !tt.exact && !strings.Contains(got, tt.want) {
				t.Errorf("Ask = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestAskNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(testConfig(url), NewContextBuilder(&fakeReader{}, nil), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := client.Ask(context.Background(), "question")
	if !strings.HasPrefix(got, "Network error querying the assistant:") {
		t.Errorf("Ask = %q, want a network error message", got)
	}
}

func TestAskCancelledWhileRateLimited(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.RequestsPerMinute = 1
	client, err := New(cfg, NewContextBuilder(&fakeReader{}, nil), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Use up the single token so the next Wait has to block.
	client.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := client.Ask(ctx, "question"); !strings.Contains(got, "cancelled") {
		t.Errorf("Ask = %q, want a cancellation message", got)
	}
}

func TestPromptLanguage(t *testing.T) {
	cfg := testConfig("https://example.com")
	cfg.Language = "Spanish"
	client, err := New(cfg, NewContextBuilder(&fakeReader{}, nil), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	prompt := client.Prompt("digest", "¿Qué tiempo hace?")
	if !strings.HasSuffix(prompt, "Answer in Spanish:") {
		t.Errorf("prompt should end with the language instruction:\n%s", prompt)
	}
}

// truncatedBody writes the status and part of a declared body, then drops the connection.
func truncatedBody(t *testing.T, status int, partial string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(status)
		w.Write([]byte(partial))
		w.(http.Flusher).Flush()

		conn, _, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		conn.Close()
	}
}

func TestAskTruncatedBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"rate limited", http.StatusTooManyRequests, RateLimitedMessage},
		{"server error", http.StatusServiceUnavailable, `Error querying the assistant (503): {"error":`},
		{"success", http.StatusOK, "Network error querying the assistant:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, truncatedBody(t, tt.status, `{"error":`))

			got := client.Ask(context.Background(), "question")
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Ask = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
