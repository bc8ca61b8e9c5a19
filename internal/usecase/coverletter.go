package usecase

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

// CoverLetterInput carries applicant, job and tone fields for one letter.
type CoverLetterInput struct {
	ApplicantName  string `json:"applicantName" validate:"required"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantPhone string `json:"applicantPhone"`
	CompanyName    string `json:"companyName" validate:"required"`
	JobTitle       string `json:"jobTitle" validate:"required"`
	JobDescription string `json:"jobDescription"`
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	WhyCompany     string `json:"whyCompany"`
	Tone           string `json:"tone"`
}

// CoverLetter is the generated artifact: a subject line and exactly four
// paragraphs (opening hook, skills match, why this company, closing CTA).
type CoverLetter struct {
	Subject    string   `json:"subject"`
	Paragraphs []string `json:"paragraphs"`
}

const coverLetterPromptTemplate = `You are a professional cover letter writer. Write a compelling, personalized cover letter based on the details below.

Applicant: %s
Email: %s
Phone: %s
Target Role: %s at %s
Skills: %s
Relevant Experience: %s
Why this company: %s
Job Description Snippet: %s
Tone: %s (e.g. formal, enthusiastic, concise)

Rules:
1. Write exactly 4 paragraphs: opening hook, skills/experience match, why this company, closing CTA.
2. Keep the full letter under 400 words.
3. Do NOT use placeholder brackets like [Your Name] — use the actual provided values.
4. Match the requested tone.
5. Output ONLY valid JSON — no markdown, no extra text, no literal newlines inside string values.

Return exactly this JSON where each paragraph is a separate string in the array:
{
  "subject": "Application for %s – %s",
  "paragraphs": [
    "Opening paragraph text",
    "Skills and experience paragraph text",
    "Why this company paragraph text",
    "Closing call-to-action paragraph text"
  ]
}`

// CoverLetterService generates cover letters through the pipeline.
type CoverLetterService struct {
	Gen domain.Generator
}

// NewCoverLetterService constructs a CoverLetterService.
func NewCoverLetterService(g domain.Generator) CoverLetterService {
	return CoverLetterService{Gen: g}
}

// Generate returns the subject and four paragraphs for the given input.
func (s CoverLetterService) Generate(ctx context.Context, in CoverLetterInput) (CoverLetter, error) {
	jobDesc := in.JobDescription
	if jobDesc == "" {
		jobDesc = "Not provided"
	}
	sc := jsonx.Schema{Fields: []jsonx.Field{
		{Name: "subject", Default: fmt.Sprintf("Application for %s – %s", in.JobTitle, in.ApplicantName)},
		{Name: "paragraphs", Default: []any{}},
	}}
	req := domain.GenerationRequest{
		UserPrompt: fmt.Sprintf(coverLetterPromptTemplate,
			in.ApplicantName, in.ApplicantEmail, in.ApplicantPhone,
			in.JobTitle, in.CompanyName,
			in.Skills, in.Experience, in.WhyCompany,
			jobDesc, in.Tone,
			in.JobTitle, in.ApplicantName,
		),
	}
	out, err := generateArtifact(ctx, s.Gen, req, sc)
	if err != nil {
		return CoverLetter{}, fmt.Errorf("op=coverletter.generate: %w", err)
	}
	var letter CoverLetter
	if err := jsonx.Decode(out, &letter); err != nil {
		return CoverLetter{}, fmt.Errorf("%w: cover letter decode: %v", domain.ErrParseFailed, err)
	}
	return letter, nil
}
