package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

// PersonalInfo is the applicant identity block of a resume request.
type PersonalInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ExperienceEntry is one work-history item supplied by the caller.
type ExperienceEntry struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
	Bullets  string `json:"bullets"`
}

// EducationEntry is one education item supplied by the caller.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa"`
}

// ProjectEntry is one project item supplied by the caller.
type ProjectEntry struct {
	Name        string `json:"name"`
	Tech        string `json:"tech"`
	Description string `json:"description"`
}

// ResumeInput is the structured resume content to rewrite.
type ResumeInput struct {
	PersonalInfo PersonalInfo      `json:"personalInfo" validate:"required"`
	TargetRole   string            `json:"targetRole" validate:"required"`
	Skills       string            `json:"skills"`
	Experience   []ExperienceEntry `json:"experience"`
	Education    []EducationEntry  `json:"education"`
	Projects     []ProjectEntry    `json:"projects"`
}

var resumeSchema = jsonx.Schema{
	Fields: []jsonx.Field{
		{Name: "name", Default: ""},
		{Name: "summary", Default: ""},
		{Name: "skills", Default: []any{}},
		{Name: "experience", Default: []any{}},
		{Name: "education", Default: []any{}},
		{Name: "projects", Default: []any{}},
	},
}

const resumePromptTemplate = `You are an expert Resume Writer and ATS Optimizer. Rewrite and enhance the following resume information for a %[1]s role into a polished, professional, ATS-friendly format.

Candidate: %[2]s
Target Role: %[1]s
Skills: %[3]s

Work Experience:
%[4]s

Education:
%[5]s

Projects:
%[6]s

Rules:
1. Rewrite experience bullets to start with strong action verbs and add measurable impact where logical.
2. Generate a compelling 2-3 sentence professional summary tailored to the %[1]s role.
3. Parse skills into a clean array.
4. Keep education and project data as-is but polish descriptions.
5. Output ONLY valid JSON — no markdown, no extra text.

Return exactly this JSON structure:
{
  "name": "%[2]s",
  "summary": "Professional summary here...",
  "skills": ["skill1", "skill2"],
  "experience": [
    {
      "title": "Job Title",
      "company": "Company",
      "duration": "Jan 2023 – Present",
      "bullets": ["Strong bullet 1", "Strong bullet 2"]
    }
  ],
  "education": [
    {
      "degree": "Degree",
      "institution": "School",
      "year": "2019–2023",
      "gpa": "3.8"
    }
  ],
  "projects": [
    {
      "name": "Project Name",
      "tech": "Tech stack",
      "description": "High-impact description"
    }
  ]
}`

// ResumeService rewrites structured resume content through the pipeline.
type ResumeService struct {
	Gen domain.Generator
}

// NewResumeService constructs a ResumeService.
func NewResumeService(g domain.Generator) ResumeService { return ResumeService{Gen: g} }

// Generate returns the polished resume object mirroring the input shape.
func (s ResumeService) Generate(ctx context.Context, in ResumeInput) (map[string]any, error) {
	req := domain.GenerationRequest{
		UserPrompt: fmt.Sprintf(resumePromptTemplate,
			in.TargetRole,
			in.PersonalInfo.Name,
			in.Skills,
			formatExperience(in.Experience),
			formatEducation(in.Education),
			formatProjects(in.Projects),
		),
	}
	out, err := generateArtifact(ctx, s.Gen, req, resumeSchema)
	if err != nil {
		return nil, fmt.Errorf("op=resume.generate: %w", err)
	}
	return out, nil
}

func formatExperience(entries []ExperienceEntry) string {
	var lines []string
	for _, e := range entries {
		if e.Title == "" && e.Company == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s at %s (%s)\n  %s", e.Title, e.Company, e.Duration, e.Bullets))
	}
	return orNone(strings.Join(lines, "\n"))
}

func formatEducation(entries []EducationEntry) string {
	var lines []string
	for _, e := range entries {
		if e.Degree == "" && e.Institution == "" {
			continue
		}
		line := fmt.Sprintf("- %s, %s (%s)", e.Degree, e.Institution, e.Year)
		if e.GPA != "" {
			line += ", GPA: " + e.GPA
		}
		lines = append(lines, line)
	}
	return orNone(strings.Join(lines, "\n"))
}

func formatProjects(entries []ProjectEntry) string {
	var lines []string
	for _, p := range entries {
		if p.Name == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s [%s]: %s", p.Name, p.Tech, p.Description))
	}
	return orNone(strings.Join(lines, "\n"))
}

func orNone(s string) string {
	if s == "" {
		return "None provided"
	}
	return s
}
