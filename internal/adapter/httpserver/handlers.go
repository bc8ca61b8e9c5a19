package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-career-coach/internal/config"
	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/internal/usecase"
)

const maxBodyBytes = 1 << 20 // 1 MiB is plenty for any JSON request here.

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Profiles   usecase.ProfileService
	Insights   usecase.InsightService
	Resumes    usecase.ResumeService
	Letters    usecase.CoverLetterService
	Interviews usecase.InterviewService
	Careers    usecase.CareerPathService
	DBCheck    func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, profiles usecase.ProfileService, insights usecase.InsightService, resumes usecase.ResumeService, letters usecase.CoverLetterService, interviews usecase.InterviewService, careers usecase.CareerPathService, dbCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:        cfg,
		Profiles:   profiles,
		Insights:   insights,
		Resumes:    resumes,
		Letters:    letters,
		Interviews: interviews,
		Careers:    careers,
		DBCheck:    dbCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeAndValidate reads a JSON body into v and runs struct validation.
// Every failure maps to ErrInvalidArgument with per-field details.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err)
	}
	if err := getValidator().Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// skillList accepts either a JSON array of strings or a single
// comma-separated string on the wire.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("skills must be a string array or comma-separated string")
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*s = out
	return nil
}

type onboardingRequest struct {
	Industry    string    `json:"industry" validate:"required"`
	SubIndustry string    `json:"subIndustry"`
	Bio         string    `json:"bio" validate:"max=2000"`
	Experience  int       `json:"experience" validate:"min=0,max=60"`
	Skills      skillList `json:"skills"`
}

// OnboardingHandler stores the caller's profile and seeds the industry
// insight record.
func (s *Server) OnboardingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r.Context())
		if !ok {
			writeError(w, r, fmt.Errorf("%w: no authenticated user", domain.ErrUnauthenticated), nil)
			return
		}
		var req onboardingRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		profile, err := s.Profiles.Onboard(r.Context(), userID, usecase.OnboardingInput{
			Industry:    req.Industry,
			SubIndustry: req.SubIndustry,
			Bio:         req.Bio,
			Experience:  req.Experience,
			Skills:      req.Skills,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

// OnboardingStatusHandler reports whether the caller completed onboarding.
func (s *Server) OnboardingStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r.Context())
		if !ok {
			writeError(w, r, fmt.Errorf("%w: no authenticated user", domain.ErrUnauthenticated), nil)
			return
		}
		onboarded, err := s.Profiles.OnboardingStatus(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"isOnboarded": onboarded})
	}
}

// InsightsHandler serves the insight record for the caller's industry,
// regenerating it when the freshness window has elapsed.
func (s *Server) InsightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r.Context())
		if !ok {
			writeError(w, r, fmt.Errorf("%w: no authenticated user", domain.ErrUnauthenticated), nil)
			return
		}
		record, err := s.Insights.GetForUser(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

// ResumeHandler rewrites structured resume content.
func (s *Server) ResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in usecase.ResumeInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		out, err := s.Resumes.Generate(r.Context(), in)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// CoverLetterHandler generates a four-paragraph cover letter.
func (s *Server) CoverLetterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in usecase.CoverLetterInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		letter, err := s.Letters.Generate(r.Context(), in)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, letter)
	}
}

// InterviewQuestionsHandler generates a ten-question set tailored to the
// caller's profile.
func (s *Server) InterviewQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFrom(r.Context())
		if !ok {
			writeError(w, r, fmt.Errorf("%w: no authenticated user", domain.ErrUnauthenticated), nil)
			return
		}
		set, err := s.Interviews.Questions(r.Context(), userID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

type mockTurnRequest struct {
	TargetRole string        `json:"targetRole" validate:"required"`
	Messages   []chatMessage `json:"messages" validate:"dive"`
}

type chatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// MockInterviewHandler produces the interviewer's next free-text reply.
func (s *Server) MockInterviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mockTurnRequest
		if err := decodeAndValidate(w, r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		messages := make([]domain.ChatMessage, len(req.Messages))
		for i, m := range req.Messages {
			messages[i] = domain.ChatMessage{Role: domain.Role(m.Role), Content: m.Content}
		}
		text, err := s.Interviews.MockTurn(r.Context(), req.TargetRole, messages)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": text})
	}
}

// CareerPathHandler generates a three-milestone progression plan.
func (s *Server) CareerPathHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in usecase.CareerPathInput
		if err := decodeAndValidate(w, r, &in); err != nil {
			writeError(w, r, err, nil)
			return
		}
		plan, err := s.Careers.Generate(r.Context(), in)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

// HealthzHandler is the liveness probe.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler is the readiness probe: ready once the database answers.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.DBCheck != nil {
			if err := s.DBCheck(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
