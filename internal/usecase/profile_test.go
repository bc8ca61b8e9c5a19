package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

func profileFixture(t *testing.T) (ProfileService, *fakeProfileRepo, *fakeInsightRepo, *fakeGenerator) {
	t.Helper()
	profiles := newFakeProfileRepo()
	insights := newFakeInsightRepo()
	gen := &fakeGenerator{responses: []string{insightResponse, insightResponse}}
	svc := NewProfileService(profiles, NewInsightService(profiles, insights, gen))
	return svc, profiles, insights, gen
}

func TestProfileService_Onboard(t *testing.T) {
	t.Parallel()

	svc, profiles, insights, gen := profileFixture(t)
	got, err := svc.Onboard(context.Background(), "user-1", OnboardingInput{
		Industry:   "Technology",
		Bio:        "Builder of things.",
		Experience: 5,
		Skills:     []string{" Go ", "", "SQL"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Technology", got.Industry)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.False(t, got.UpdatedAt.IsZero())

	stored, err := profiles.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	// First time this industry is seen: one generation, one persisted record.
	assert.Equal(t, 1, insights.upserts)
	assert.Len(t, gen.requests, 1)
}

func TestProfileService_Onboard_SubIndustryWins(t *testing.T) {
	t.Parallel()

	svc, _, insights, _ := profileFixture(t)
	got, err := svc.Onboard(context.Background(), "user-1", OnboardingInput{
		Industry:    "Technology",
		SubIndustry: "Cloud Infrastructure",
	})
	require.NoError(t, err)
	assert.Equal(t, "Cloud Infrastructure", got.Industry)
	_, ok := insights.records["Cloud Infrastructure"]
	assert.True(t, ok, "insight record keyed by the specialization")
}

func TestProfileService_Onboard_KnownIndustrySkipsGeneration(t *testing.T) {
	t.Parallel()

	svc, _, insights, gen := profileFixture(t)
	insights.records["Technology"] = domain.IndustryInsight{Industry: "Technology"}

	_, err := svc.Onboard(context.Background(), "user-1", OnboardingInput{Industry: "Technology"})
	require.NoError(t, err)
	assert.Empty(t, gen.requests)
	assert.Zero(t, insights.upserts)
}

func TestProfileService_Onboard_GenerationFailureKeepsPriorProfile(t *testing.T) {
	t.Parallel()

	svc, profiles, _, gen := profileFixture(t)
	profiles.profiles["user-1"] = domain.Profile{UserID: "user-1", Industry: "Finance", Experience: 2}
	gen.responses = nil
	gen.err = domain.ErrProviderFailed

	_, err := svc.Onboard(context.Background(), "user-1", OnboardingInput{Industry: "Technology"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailed)

	prior, getErr := profiles.Get(context.Background(), "user-1")
	require.NoError(t, getErr)
	assert.Equal(t, "Finance", prior.Industry, "previous onboarding state intact")
}

func TestProfileService_Onboard_UpdateMerges(t *testing.T) {
	t.Parallel()

	svc, profiles, insights, _ := profileFixture(t)
	insights.records["Technology"] = domain.IndustryInsight{Industry: "Technology"}
	profiles.profiles["user-1"] = domain.Profile{UserID: "user-1", Industry: "Finance", Bio: "old bio"}

	got, err := svc.Onboard(context.Background(), "user-1", OnboardingInput{
		Industry: "Technology",
		Bio:      "new bio",
	})
	require.NoError(t, err)
	assert.Equal(t, "Technology", got.Industry)
	assert.Equal(t, "new bio", got.Bio)
	assert.Equal(t, "user-1", got.UserID)
}

func TestProfileService_OnboardingStatus(t *testing.T) {
	t.Parallel()

	svc, profiles, _, _ := profileFixture(t)

	done, err := svc.OnboardingStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, done, "unknown user is simply not onboarded")

	profiles.profiles["user-1"] = domain.Profile{UserID: "user-1", Industry: "Technology"}
	done, err = svc.OnboardingStatus(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestOnboardingInput_EffectiveIndustry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tech", OnboardingInput{Industry: "Tech"}.EffectiveIndustry())
	assert.Equal(t, "Fintech", OnboardingInput{Industry: "Finance", SubIndustry: "Fintech"}.EffectiveIndustry())
}
