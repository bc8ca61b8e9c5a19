// Package usecase contains the feature services built on the shared
// generation pipeline: dual-provider generator, response sanitizer, schema
// coercer. Each service supplies only its prompt template and target schema.
package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

// generateArtifact runs one request through the full pipeline:
// generate -> sanitize -> parse -> coerce. A parse failure after sanitizing
// is a shape-contract violation, reported distinctly from provider outages.
func generateArtifact(ctx context.Context, gen domain.Generator, req domain.GenerationRequest, sc jsonx.Schema) (map[string]any, error) {
	raw, err := gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	m, err := jsonx.ParseObject(jsonx.Sanitize(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}
	return jsonx.Coerce(m, sc), nil
}
