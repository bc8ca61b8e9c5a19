package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

// fakeGenerator returns queued responses in order and records requests.
type fakeGenerator struct {
	responses []string
	err       error
	requests  []domain.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fakeGenerator: no responses queued")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// fakeProfileRepo is an in-memory domain.ProfileRepository.
type fakeProfileRepo struct {
	profiles map[string]domain.Profile
	getErr   error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]domain.Profile{}}
}

func (f *fakeProfileRepo) Get(_ context.Context, userID string) (domain.Profile, error) {
	if f.getErr != nil {
		return domain.Profile{}, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return domain.Profile{}, fmt.Errorf("op=fake.profile.get: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, p domain.Profile) error {
	f.profiles[p.UserID] = p
	return nil
}

// fakeInsightRepo is an in-memory domain.InsightRepository counting upserts.
type fakeInsightRepo struct {
	records map[string]domain.IndustryInsight
	upserts int
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{records: map[string]domain.IndustryInsight{}}
}

func (f *fakeInsightRepo) GetByIndustry(_ context.Context, industry string) (domain.IndustryInsight, error) {
	rec, ok := f.records[industry]
	if !ok {
		return domain.IndustryInsight{}, fmt.Errorf("op=fake.insight.get: %w", domain.ErrNotFound)
	}
	return rec, nil
}

func (f *fakeInsightRepo) Upsert(_ context.Context, ins domain.IndustryInsight) error {
	f.upserts++
	f.records[ins.Industry] = ins
	return nil
}
