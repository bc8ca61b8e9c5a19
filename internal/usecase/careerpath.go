package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

// CareerPathInput describes where the caller is and where they want to go.
type CareerPathInput struct {
	CurrentRole string `json:"currentRole" validate:"required"`
	TargetRole  string `json:"targetRole" validate:"required"`
	Skills      string `json:"skills"`
}

// Milestone is one step of a career progression plan.
type Milestone struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

// CareerPlan is the career path artifact: exactly three ordered milestones.
type CareerPlan struct {
	Milestones []Milestone `json:"milestones"`
}

const careerPathInstruction = `You are an expert Career Coach.

Your task is to generate a 3-step professional progression plan based on the user's current skills and target role.

Rules:
1. Provide exactly 3 milestones.
2. Each milestone should have a clear goal and actionable tasks.
3. Output ONLY valid JSON in this exact format:
{
  "milestones": [
    {
      "step": 1,
      "title": "Milestone Title",
      "description": "Brief description of the goal",
      "tasks": ["Task 1", "Task 2", "Task 3"]
    }
  ]
}

Do not include markdown formatting. Just the raw JSON string.`

var careerPlanSchema = jsonx.Schema{
	Fields: []jsonx.Field{{Name: "milestones", Default: []any{}}},
}

// CareerPathService generates progression plans through the pipeline.
type CareerPathService struct {
	Gen domain.Generator
}

// NewCareerPathService constructs a CareerPathService.
func NewCareerPathService(g domain.Generator) CareerPathService {
	return CareerPathService{Gen: g}
}

// Generate returns a three-milestone plan for the given input.
func (s CareerPathService) Generate(ctx context.Context, in CareerPathInput) (CareerPlan, error) {
	req := domain.GenerationRequest{
		SystemInstruction: careerPathInstruction,
		UserPrompt: fmt.Sprintf("Current Role: %s\nTarget Role: %s\nCurrent Skills: %s",
			in.CurrentRole, in.TargetRole, in.Skills),
	}
	out, err := generateArtifact(ctx, s.Gen, req, careerPlanSchema)
	if err != nil {
		return CareerPlan{}, fmt.Errorf("op=careerpath.generate: %w", err)
	}
	var plan CareerPlan
	if err := jsonx.Decode(out, &plan); err != nil {
		return CareerPlan{}, fmt.Errorf("%w: career plan decode: %v", domain.ErrParseFailed, err)
	}
	return plan, nil
}
