package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/jsonx"
)

// Question is one multiple-choice interview question. CorrectIndex is
// zero-based into the four options.
type Question struct {
	ID           int      `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// QuestionSet is the interview prep artifact: ten questions.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

const questionsPromptTemplate = `You are a technical interviewer. Generate exactly 10 multiple-choice interview questions for a candidate with the following profile:
- Industry/Role: %s
- Skills: %s
- Years of experience: %d

Rules:
1. Each question must have exactly 4 options labeled A, B, C, D.
2. Exactly one option must be correct.
3. Include a short explanation (1-2 sentences) for why the correct answer is right.
4. Vary difficulty: mix easy, medium, and hard questions.
5. Output ONLY valid JSON — no markdown, no extra text.

Return this exact JSON structure:
{
  "questions": [
    {
      "id": 1,
      "question": "Question text here?",
      "options": ["Option A text", "Option B text", "Option C text", "Option D text"],
      "correctIndex": 0,
      "explanation": "Brief explanation of the correct answer."
    }
  ]
}

correctIndex is 0-based (0=A, 1=B, 2=C, 3=D).`

const mockInterviewInstructionTemplate = `You are an expert Technical Recruiter conducting a mock interview for a %s position.

Rules:
1. Ask one question at a time.
2. Wait for the user's answer.
3. Provide brief, constructive feedback on their answer.
4. Then ask the next question.
5. Keep the tone professional but encouraging.
6. If the user asks for a hint, provide a small clue without giving away the answer.
7. After 5 questions, provide a final summary of their performance.`

// openingTurn seeds a brand-new mock interview with no prior messages.
const openingTurn = "Start the interview."

var questionSetSchema = jsonx.Schema{
	Fields: []jsonx.Field{{Name: "questions", Default: []any{}}},
}

// InterviewService generates question sets and drives mock interview turns.
type InterviewService struct {
	Profiles domain.ProfileRepository
	Gen      domain.Generator
}

// NewInterviewService constructs an InterviewService.
func NewInterviewService(p domain.ProfileRepository, g domain.Generator) InterviewService {
	return InterviewService{Profiles: p, Gen: g}
}

// Questions generates ten multiple-choice questions tailored to the caller's
// profile. A missing or incomplete profile falls back to generic defaults
// rather than failing.
func (s InterviewService) Questions(ctx context.Context, userID string) (QuestionSet, error) {
	industry := "Software Engineering"
	skills := "General programming"
	experience := 0
	if profile, err := s.Profiles.Get(ctx, userID); err == nil {
		if profile.Industry != "" {
			industry = profile.Industry
		}
		if len(profile.Skills) > 0 {
			skills = strings.Join(profile.Skills, ", ")
		}
		experience = profile.Experience
	} else if !errors.Is(err, domain.ErrNotFound) {
		return QuestionSet{}, fmt.Errorf("op=interview.questions: %w", err)
	}

	req := domain.GenerationRequest{
		UserPrompt: fmt.Sprintf(questionsPromptTemplate, industry, skills, experience),
	}
	out, err := generateArtifact(ctx, s.Gen, req, questionSetSchema)
	if err != nil {
		return QuestionSet{}, fmt.Errorf("op=interview.questions: %w", err)
	}
	var set QuestionSet
	if err := jsonx.Decode(out, &set); err != nil {
		return QuestionSet{}, fmt.Errorf("%w: question set decode: %v", domain.ErrParseFailed, err)
	}
	return set, nil
}

// MockTurn produces the interviewer's next reply given the conversation so
// far. The reply is free text; no JSON parsing happens on this path.
func (s InterviewService) MockTurn(ctx context.Context, targetRole string, messages []domain.ChatMessage) (string, error) {
	lastMessage := openingTurn
	var history []domain.ChatMessage
	if len(messages) > 0 {
		lastMessage = messages[len(messages)-1].Content
		history = messages[:len(messages)-1]
	}
	req := domain.GenerationRequest{
		SystemInstruction: fmt.Sprintf(mockInterviewInstructionTemplate, targetRole),
		UserPrompt:        lastMessage,
		History:           history,
	}
	text, err := s.Gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("op=interview.mock_turn: %w", err)
	}
	return text, nil
}
