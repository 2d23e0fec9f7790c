package aiserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/skillfolio/internal/llm"
	"github.com/jonathan/skillfolio/internal/prompts"
)

// MaxSuggestedSkills caps the skills returned by suggest-skills
const MaxSuggestedSkills = 8

// ImproveSummaryRequest is the body of POST /api/ai/improve-summary
type ImproveSummaryRequest struct {
	Summary string `json:"summary" validate:"max=5000"`
}

// ImproveSummaryResponse is the answer of POST /api/ai/improve-summary
type ImproveSummaryResponse struct {
	ImprovedSummary string `json:"improved_summary"`
}

// SuggestSkillsRequest is the body of POST /api/ai/suggest-skills
type SuggestSkillsRequest struct {
	Skills []string `json:"skills" validate:"max=200,dive,max=100"`
}

// SuggestSkillsResponse is the answer of POST /api/ai/suggest-skills
type SuggestSkillsResponse struct {
	SuggestedSkills []string `json:"suggested_skills"`
}

// ImproveProjectRequest is the body of POST /api/ai/improve-project
type ImproveProjectRequest struct {
	ProjectDescription string `json:"project_description" validate:"max=5000"`
}

// ImproveProjectResponse is the answer of POST /api/ai/improve-project
type ImproveProjectResponse struct {
	ImprovedProject string `json:"improved_project"`
}

func (s *Server) handleImproveSummary(w http.ResponseWriter, r *http.Request) {
	var req ImproveSummaryRequest
	if !s.decode(w, r, &req) {
		return
	}

	text, err := s.generate(r.Context(), prompts.KeyImproveSummary, map[string]string{"Summary": req.Summary})
	if err != nil {
		s.fail(w, "improve-summary", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ImproveSummaryResponse{ImprovedSummary: text})
}

func (s *Server) handleSuggestSkills(w http.ResponseWriter, r *http.Request) {
	var req SuggestSkillsRequest
	if !s.decode(w, r, &req) {
		return
	}

	text, err := s.generate(r.Context(), prompts.KeySuggestSkills, map[string]string{
		"Skills": strings.Join(req.Skills, ", "),
		"Count":  strconv.Itoa(MaxSuggestedSkills),
	})
	if err != nil {
		s.fail(w, "suggest-skills", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SuggestSkillsResponse{SuggestedSkills: llm.SplitList(text, MaxSuggestedSkills)})
}

func (s *Server) handleImproveProject(w http.ResponseWriter, r *http.Request) {
	var req ImproveProjectRequest
	if !s.decode(w, r, &req) {
		return
	}

	text, err := s.generate(r.Context(), prompts.KeyImproveProject, map[string]string{"Description": req.ProjectDescription})
	if err != nil {
		s.fail(w, "improve-project", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ImproveProjectResponse{ImprovedProject: text})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// generate renders a prompt and asks the model for a short answer.
func (s *Server) generate(ctx context.Context, key string, data map[string]string) (string, error) {
	prompt, err := prompts.Render(prompts.AssistFile, key, data)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := s.llm.GenerateContent(ctx, prompt, s.tier)
	if err != nil {
		return "", &LLMError{Op: key, Cause: err}
	}
	return text, nil
}

// fail logs err and writes the matching status.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	log.Printf("[aiserver] %s: %v", op, err)

	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		s.errorResponse(w, HTTPStatus(err), "AI service unavailable: "+llmErr.Cause.Error())
		return
	}
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
