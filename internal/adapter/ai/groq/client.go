// Package groq implements the secondary generative provider over Groq's
// OpenAI-compatible chat completions API.
package groq

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

// startInterviewTurn is the synthetic user turn prepended when a
// conversation history begins with an assistant message. Groq rejects
// conversations whose first non-system message is assistant-authored.
const startInterviewTurn = "Start the interview."

// Client calls the Groq chat completions endpoint. Constructed once at
// startup; read-only afterwards.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Groq client with the configured call timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.ProviderTimeout}}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return "groq" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// buildMessages flattens a structured instruction+history request into the
// single ordered message list Groq expects.
func buildMessages(req domain.GenerationRequest) []message {
	msgs := make([]message, 0, len(req.History)+3)
	if req.SystemInstruction != "" {
		msgs = append(msgs, message{Role: "system", Content: req.SystemInstruction})
	}
	if len(req.History) > 0 && req.History[0].Role == domain.RoleAssistant {
		msgs = append(msgs, message{Role: "user", Content: startInterviewTurn})
	}
	for _, m := range req.History {
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "assistant"
		}
		msgs = append(msgs, message{Role: role, Content: m.Content})
	}
	msgs = append(msgs, message{Role: "user", Content: req.UserPrompt})
	return msgs
}

// Generate sends the request to Groq and returns the first choice's content.
// Exactly one attempt; failure here means the whole fallback chain failed.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}

	body := chatRequest{Model: c.cfg.GroqModel, Messages: buildMessages(req)}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("op=groq.generate: marshal: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.GroqBaseURL, "/") + "/chat/completions"
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("op=groq.generate: %w", err)
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	r.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(r)
	observability.AIRequestDuration.WithLabelValues("groq").Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("groq", "error").Inc()
		return "", fmt.Errorf("op=groq.generate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.AIRequestsTotal.WithLabelValues("groq", "error").Inc()
		return "", fmt.Errorf("op=groq.generate: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(respBytes)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("groq non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.GroqModel),
			slog.String("body", snippet))
		observability.AIRequestsTotal.WithLabelValues("groq", "error").Inc()
		return "", fmt.Errorf("op=groq.generate: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		observability.AIRequestsTotal.WithLabelValues("groq", "error").Inc()
		return "", fmt.Errorf("op=groq.generate: decode: %w", err)
	}
	if len(out.Choices) == 0 {
		observability.AIRequestsTotal.WithLabelValues("groq", "error").Inc()
		return "", fmt.Errorf("op=groq.generate: empty choices")
	}

	observability.AIRequestsTotal.WithLabelValues("groq", "ok").Inc()
	return out.Choices[0].Message.Content, nil
}
