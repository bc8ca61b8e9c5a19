// Package gemini implements the primary generative provider over the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// Client calls the Gemini generateContent endpoint. Constructed once at
// startup; read-only afterwards.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Gemini client with the configured call timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.ProviderTimeout}}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "gemini" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the request to Gemini and returns the raw candidate text.
// Exactly one attempt; any failure is reported to the caller so the fallback
// chain can try the secondary provider.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.cfg.GeminiAPIKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY missing", domain.ErrInvalidArgument)
	}

	body := generateRequest{Contents: make([]content, 0, len(req.History)+1)}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	for _, m := range req.History {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		body.Contents = append(body.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	body.Contents = append(body.Contents, content{Role: "user", Parts: []part{{Text: req.UserPrompt}}})

	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("op=gemini.generate: marshal: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.GeminiBaseURL, "/"), c.cfg.GeminiModel)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=gemini.generate: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("x-goog-api-key", c.cfg.GeminiAPIKey)

	start := time.Now()
	resp, err := c.hc.Do(r)
	observability.AIRequestDuration.WithLabelValues("gemini").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("op=gemini.generate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("op=gemini.generate: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBytes)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("gemini non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.GeminiModel),
			slog.String("body", snippet))
		observability.AIRequestsTotal.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("op=gemini.generate: status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		observability.AIRequestsTotal.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("op=gemini.generate: decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		observability.AIRequestsTotal.WithLabelValues("gemini", "error").Inc()
		return "", fmt.Errorf("op=gemini.generate: empty candidates")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	observability.AIRequestsTotal.WithLabelValues("gemini", "ok").Inc()
	return sb.String(), nil
}
