package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

const insightSystemInstruction = `You are an industry analyst AI.
You ONLY return valid JSON — no markdown, no explanation, no extra text.
All numeric values must be real numbers, not 0 unless truly accurate.
All arrays must have at least 5 items.
Be specific and data-driven.`

const insightPromptTemplate = `You are an expert industry analyst. Analyze the "%s" industry and return a JSON object.

User context: experience=%d years, current skills=[%s]

Return ONLY this JSON structure, no markdown, no extra text:
{
  "salaryRanges": [
    { "role": "string", "min": 50000, "max": 150000, "median": 95000, "location": "string" }
  ],
  "growthRate": 12.5,
  "demandLevel": "HIGH",
  "topSkills": ["skill1", "skill2", "skill3", "skill4", "skill5"],
  "marketOutlook": "POSITIVE",
  "keyTrends": ["trend1", "trend2", "trend3", "trend4", "trend5"],
  "recommendedSkills": ["skill1", "skill2", "skill3", "skill4", "skill5"],
  "demandTrends": [
    "Short description of demand trend 1",
    "Short description of demand trend 2",
    "Short description of demand trend 3"
  ],
  "futureOutlook": [
    "1-2 year outlook statement",
    "3-5 year outlook statement",
    "Long-term (5+ years) outlook statement"
  ],
  "careerRecommendations": [
    "Actionable recommendation personalized to user skills and experience",
    "Recommendation 2",
    "Recommendation 3",
    "Recommendation 4"
  ]
}

Rules:
- growthRate must be a realistic percentage number (e.g. 12.5 not 0)
- demandLevel must be exactly one of: HIGH, MEDIUM, LOW
- marketOutlook must be exactly one of: POSITIVE, NEUTRAL, NEGATIVE
- salaryRanges must include at least 6 common roles in this industry
- All arrays must have at least 5 items (except futureOutlook=3, careerRecommendations=4)
- careerRecommendations must be personalized based on the user's %d years of experience and skills`

// insightSchema declares the coercion target for insight generation. Some
// providers nest the analytical fields under a "trends" envelope; the variant
// key unwraps that shape.
var insightSchema = jsonx.Schema{
	VariantKey:   "trends",
	PrimaryField: "salaryRanges",
	Fields: []jsonx.Field{
		{Name: "salaryRanges", Default: []any{}},
		{Name: "growthRate", Default: 0.0},
		{Name: "demandLevel", Default: domain.DemandMedium},
		{Name: "topSkills", Default: []any{}},
		{Name: "marketOutlook", Default: domain.OutlookNeutral},
		{Name: "keyTrends", Default: []any{}},
		{Name: "recommendedSkills", Default: []any{}},
		{Name: "demandTrends", Default: []any{}},
		{Name: "futureOutlook", Default: []any{}},
		{Name: "careerRecommendations", Default: []any{}},
	},
}

// InsightService is the cache gate in front of insight generation. Records
// are shared per industry: a cache hit serves every user of that industry
// unmodified; personalization inputs only shape the prompt on a miss.
type InsightService struct {
	Profiles domain.ProfileRepository
	Insights domain.InsightRepository
	Gen      domain.Generator

	now func() time.Time
}

// NewInsightService constructs an InsightService with its dependencies.
func NewInsightService(p domain.ProfileRepository, i domain.InsightRepository, g domain.Generator) InsightService {
	return InsightService{Profiles: p, Insights: i, Gen: g, now: time.Now}
}

// GetForUser returns the insight record for the caller's industry, serving
// the stored record while fresh and regenerating once the freshness window
// has elapsed. Staleness is evaluated lazily on access; there is no
// background refresh.
func (s InsightService) GetForUser(ctx context.Context, userID string) (domain.IndustryInsight, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return domain.IndustryInsight{}, fmt.Errorf("op=insights.get_for_user: %w", err)
	}
	if profile.Industry == "" {
		return domain.IndustryInsight{}, fmt.Errorf("%w: onboarding incomplete, no industry set", domain.ErrInvalidArgument)
	}

	record, err := s.Insights.GetByIndustry(ctx, profile.Industry)
	switch {
	case err == nil && record.Fresh(s.now()):
		observability.InsightCacheTotal.WithLabelValues("hit").Inc()
		slog.Debug("insight cache hit", slog.String("industry", profile.Industry))
		return record, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return domain.IndustryInsight{}, fmt.Errorf("op=insights.get_for_user: %w", err)
	}

	observability.InsightCacheTotal.WithLabelValues("miss").Inc()
	return s.refresh(ctx, profile.Industry, profile.Skills, profile.Experience)
}

// EnsureIndustry creates the insight record for a never-seen industry.
// Existing records are left untouched regardless of freshness; this path is
// used by onboarding, where an already-present record is good enough.
func (s InsightService) EnsureIndustry(ctx context.Context, industry string) error {
	_, err := s.Insights.GetByIndustry(ctx, industry)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("op=insights.ensure_industry: %w", err)
	}
	_, err = s.refresh(ctx, industry, nil, 0)
	return err
}

// refresh generates, coerces and upserts a record for the industry. The
// upsert is an atomic replace keyed by industry; concurrent refreshes of the
// same key are not mutually excluded and the last writer wins.
func (s InsightService) refresh(ctx context.Context, industry string, skills []string, experience int) (domain.IndustryInsight, error) {
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = "none provided"
	}
	req := domain.GenerationRequest{
		SystemInstruction: insightSystemInstruction,
		UserPrompt:        fmt.Sprintf(insightPromptTemplate, industry, experience, skillList, experience),
	}

	coerced, err := generateArtifact(ctx, s.Gen, req, insightSchema)
	if err != nil {
		return domain.IndustryInsight{}, fmt.Errorf("op=insights.refresh industry=%s: %w", industry, err)
	}

	var record domain.IndustryInsight
	if err := jsonx.Decode(coerced, &record); err != nil {
		return domain.IndustryInsight{}, fmt.Errorf("%w: insight decode: %v", domain.ErrParseFailed, err)
	}

	now := s.now().UTC()
	record.Industry = industry
	record.LastUpdated = now
	record.NextUpdate = now.Add(domain.InsightRefreshInterval)

	if err := s.Insights.Upsert(ctx, record); err != nil {
		return domain.IndustryInsight{}, fmt.Errorf("op=insights.refresh industry=%s: %w", industry, err)
	}
	slog.Info("industry insight refreshed",
		slog.String("industry", industry),
		slog.Time("next_update", record.NextUpdate))
	return record, nil
}
