// Package domain holds the core entities and ports of the career coach service.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	// ErrProviderFailed means both generative providers raised on the same request.
	ErrProviderFailed = errors.New("provider failed")
	// ErrParseFailed means the sanitized provider output is still not the JSON
	// shape we asked for. Distinct from ErrProviderFailed: it signals a
	// prompt/shape-contract violation rather than an outage.
	ErrParseFailed = errors.New("response parse failed")
	ErrInternal    = errors.New("internal error")
)

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn of a structured conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerationRequest carries everything a provider needs for one call.
// Immutable once constructed; one instance per call. History is empty for
// non-conversational artifacts.
type GenerationRequest struct {
	SystemInstruction string
	UserPrompt        string
	History           []ChatMessage
}

// Demand levels and market outlooks the insight schema recognizes. The
// neutral members double as coercion defaults when a provider omits the field.
const (
	DemandHigh   = "HIGH"
	DemandMedium = "MEDIUM"
	DemandLow    = "LOW"

	OutlookPositive = "POSITIVE"
	OutlookNeutral  = "NEUTRAL"
	OutlookNegative = "NEGATIVE"
)

// InsightRefreshInterval is the freshness window for a cached industry
// insight record. nextUpdate = lastUpdated + this at write time.
const InsightRefreshInterval = 7 * 24 * time.Hour

// SalaryRange is one row of the salary table inside an insight record.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// IndustryInsight is the persisted, industry-keyed analytical record.
// One record per distinct industry value; refreshed in place once stale;
// never deleted by this service.
type IndustryInsight struct {
	Industry              string        `json:"industry"`
	SalaryRanges          []SalaryRange `json:"salaryRanges"`
	GrowthRate            float64       `json:"growthRate"`
	DemandLevel           string        `json:"demandLevel"`
	TopSkills             []string      `json:"topSkills"`
	MarketOutlook         string        `json:"marketOutlook"`
	KeyTrends             []string      `json:"keyTrends"`
	RecommendedSkills     []string      `json:"recommendedSkills"`
	DemandTrends          []string      `json:"demandTrends"`
	FutureOutlook         []string      `json:"futureOutlook"`
	CareerRecommendations []string      `json:"careerRecommendations"`
	LastUpdated           time.Time     `json:"lastUpdated"`
	NextUpdate            time.Time     `json:"nextUpdate"`
}

// Fresh reports whether the record's freshness window is still open at now.
func (i IndustryInsight) Fresh(now time.Time) bool {
	return i.NextUpdate.After(now)
}

// Profile is the per-user context read before generation. The user id is the
// external identity key (JWT subject); this service owns industry, bio,
// experience and skills, the identity provider owns the rest.
type Profile struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Industry   string    `json:"industry"`
	Bio        string    `json:"bio"`
	Experience int       `json:"experience"`
	Skills     []string  `json:"skills"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Provider is a single external generative text service.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Generator is the orchestration port the feature services call. The
// production implementation tries a primary Provider and falls back to a
// secondary on any failure.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// InsightRepository persists industry insight records keyed by industry.
type InsightRepository interface {
	GetByIndustry(ctx context.Context, industry string) (IndustryInsight, error)
	// Upsert creates the record if absent and overwrites all fields if
	// present. Atomic replace, not a merge.
	Upsert(ctx context.Context, ins IndustryInsight) error
}

// ProfileRepository persists user profiles keyed by external identity.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, p Profile) error
}
