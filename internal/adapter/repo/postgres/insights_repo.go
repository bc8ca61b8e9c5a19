package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// InsightRepo persists industry insight records. One row per industry; the
// upsert is an atomic full replace of the row.
type InsightRepo struct{ Pool PgxPool }

// NewInsightRepo constructs an InsightRepo with the given pool.
func NewInsightRepo(p PgxPool) *InsightRepo { return &InsightRepo{Pool: p} }

// GetByIndustry loads the record for one industry.
func (r *InsightRepo) GetByIndustry(ctx context.Context, industry string) (domain.IndustryInsight, error) {
	q := `SELECT industry, salary_ranges, growth_rate, demand_level, top_skills, market_outlook,
		key_trends, recommended_skills, demand_trends, future_outlook, career_recommendations,
		last_updated, next_update
		FROM industry_insights WHERE industry=$1`
	row := r.Pool.QueryRow(ctx, q, industry)
	var ins domain.IndustryInsight
	var salaryJSON []byte
	err := row.Scan(&ins.Industry, &salaryJSON, &ins.GrowthRate, &ins.DemandLevel, &ins.TopSkills,
		&ins.MarketOutlook, &ins.KeyTrends, &ins.RecommendedSkills, &ins.DemandTrends,
		&ins.FutureOutlook, &ins.CareerRecommendations, &ins.LastUpdated, &ins.NextUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.IndustryInsight{}, fmt.Errorf("op=insight.get industry=%s: %w", industry, domain.ErrNotFound)
		}
		return domain.IndustryInsight{}, fmt.Errorf("op=insight.get: %w", err)
	}
	if err := json.Unmarshal(salaryJSON, &ins.SalaryRanges); err != nil {
		return domain.IndustryInsight{}, fmt.Errorf("op=insight.get salary_ranges: %w", err)
	}
	return ins, nil
}

// Upsert creates or fully replaces the record for ins.Industry. Concurrent
// writers of the same key race and the last one wins.
func (r *InsightRepo) Upsert(ctx context.Context, ins domain.IndustryInsight) error {
	salaryJSON, err := json.Marshal(ins.SalaryRanges)
	if err != nil {
		return fmt.Errorf("op=insight.upsert salary_ranges: %w", err)
	}
	q := `INSERT INTO industry_insights
		(industry, salary_ranges, growth_rate, demand_level, top_skills, market_outlook,
		 key_trends, recommended_skills, demand_trends, future_outlook, career_recommendations,
		 last_updated, next_update)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (industry) DO UPDATE SET
		 salary_ranges=EXCLUDED.salary_ranges,
		 growth_rate=EXCLUDED.growth_rate,
		 demand_level=EXCLUDED.demand_level,
		 top_skills=EXCLUDED.top_skills,
		 market_outlook=EXCLUDED.market_outlook,
		 key_trends=EXCLUDED.key_trends,
		 recommended_skills=EXCLUDED.recommended_skills,
		 demand_trends=EXCLUDED.demand_trends,
		 future_outlook=EXCLUDED.future_outlook,
		 career_recommendations=EXCLUDED.career_recommendations,
		 last_updated=EXCLUDED.last_updated,
		 next_update=EXCLUDED.next_update`
	_, err = r.Pool.Exec(ctx, q, ins.Industry, salaryJSON, ins.GrowthRate, ins.DemandLevel,
		ins.TopSkills, ins.MarketOutlook, ins.KeyTrends, ins.RecommendedSkills, ins.DemandTrends,
		ins.FutureOutlook, ins.CareerRecommendations, ins.LastUpdated, ins.NextUpdate)
	if err != nil {
		return fmt.Errorf("op=insight.upsert industry=%s: %w", ins.Industry, err)
	}
	return nil
}
