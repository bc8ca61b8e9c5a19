// Package ai provides the dual-provider generation orchestration.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// Fallback implements domain.Generator over a primary and a secondary
// provider. The primary is preferred for quality; the secondary exists to
// survive primary downtime. Exactly one attempt per provider per request —
// this is an availability fallback, not a resilience loop.
type Fallback struct {
	primary   domain.Provider
	secondary domain.Provider
}

// NewFallback wires the two providers in fallback order.
func NewFallback(primary, secondary domain.Provider) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Generate tries the primary provider, then the secondary on any failure.
// The returned error wraps domain.ErrProviderFailed only when both raised.
func (f *Fallback) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	text, primaryErr := f.primary.Generate(ctx, req)
	if primaryErr == nil {
		return text, nil
	}

	slog.Warn("primary provider failed, falling back",
		slog.String("primary", f.primary.Name()),
		slog.String("secondary", f.secondary.Name()),
		slog.Any("error", primaryErr))
	observability.AIFallbacksTotal.Inc()

	text, secondaryErr := f.secondary.Generate(ctx, req)
	if secondaryErr == nil {
		return text, nil
	}

	return "", fmt.Errorf("%w: %s: %v; %s: %v",
		domain.ErrProviderFailed,
		f.primary.Name(), primaryErr,
		f.secondary.Name(), secondaryErr)
}
