package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// ProfileRepo persists user profiles keyed by the external identity id.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

// Get loads a profile by user id.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (domain.Profile, error) {
	q := `SELECT user_id, COALESCE(email,''), COALESCE(name,''), industry, bio, experience, skills, updated_at
		FROM profiles WHERE user_id=$1`
	row := r.Pool.QueryRow(ctx, q, userID)
	var p domain.Profile
	if err := row.Scan(&p.UserID, &p.Email, &p.Name, &p.Industry, &p.Bio, &p.Experience, &p.Skills, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the profile row for p.UserID.
func (r *ProfileRepo) Upsert(ctx context.Context, p domain.Profile) error {
	q := `INSERT INTO profiles (user_id, email, name, industry, bio, experience, skills, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id) DO UPDATE SET
		 email=EXCLUDED.email,
		 name=EXCLUDED.name,
		 industry=EXCLUDED.industry,
		 bio=EXCLUDED.bio,
		 experience=EXCLUDED.experience,
		 skills=EXCLUDED.skills,
		 updated_at=EXCLUDED.updated_at`
	_, err := r.Pool.Exec(ctx, q, p.UserID, p.Email, p.Name, p.Industry, p.Bio, p.Experience, p.Skills, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("op=profile.upsert user=%s: %w", p.UserID, err)
	}
	return nil
}
