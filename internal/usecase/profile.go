package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// OnboardingInput is the profile data collected during onboarding. Skills
// accepts either a list or a comma-separated string on the wire; the handler
// normalizes to a list before calling the service.
type OnboardingInput struct {
	Industry    string   `json:"industry" validate:"required"`
	SubIndustry string   `json:"subIndustry"`
	Bio         string   `json:"bio" validate:"max=2000"`
	Experience  int      `json:"experience" validate:"min=0,max=60"`
	Skills      []string `json:"skills"`
}

// EffectiveIndustry is the industry value stored and used as the insight
// cache key: the specialization when given, the broad industry otherwise.
func (in OnboardingInput) EffectiveIndustry() string {
	if in.SubIndustry != "" {
		return in.SubIndustry
	}
	return in.Industry
}

// ProfileService owns onboarding and profile reads.
type ProfileService struct {
	Profiles domain.ProfileRepository
	Insights InsightService

	now func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(p domain.ProfileRepository, i InsightService) ProfileService {
	return ProfileService{Profiles: p, Insights: i, now: time.Now}
}

// Onboard stores the caller's profile and makes sure an insight record
// exists for the chosen industry, generating one only when the industry has
// never been seen. Returns the stored profile.
func (s ProfileService) Onboard(ctx context.Context, userID string, in OnboardingInput) (domain.Profile, error) {
	industry := in.EffectiveIndustry()
	if industry == "" {
		return domain.Profile{}, fmt.Errorf("%w: industry is required", domain.ErrInvalidArgument)
	}

	// Seed the industry record before touching the profile so a failed
	// generation leaves the previous onboarding state intact.
	if err := s.Insights.EnsureIndustry(ctx, industry); err != nil {
		return domain.Profile{}, fmt.Errorf("op=profile.onboard: %w", err)
	}

	profile := domain.Profile{UserID: userID}
	if existing, err := s.Profiles.Get(ctx, userID); err == nil {
		profile = existing
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Profile{}, fmt.Errorf("op=profile.onboard: %w", err)
	}

	profile.Industry = industry
	profile.Bio = in.Bio
	profile.Experience = in.Experience
	profile.Skills = normalizeSkills(in.Skills)
	profile.UpdatedAt = s.now().UTC()

	if err := s.Profiles.Upsert(ctx, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("op=profile.onboard: %w", err)
	}
	return profile, nil
}

// OnboardingStatus reports whether the caller has completed onboarding,
// which is defined as having an industry on the profile.
func (s ProfileService) OnboardingStatus(ctx context.Context, userID string) (bool, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("op=profile.onboarding_status: %w", err)
	}
	return profile.Industry != "", nil
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
