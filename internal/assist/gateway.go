// Package assist talks to the remote AI service and tracks per-field suggestion state.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every AI call.
const DefaultTimeout = 30 * time.Second

// Endpoint paths on the AI service
const (
	PathImproveSummary = "/api/ai/improve-summary"
	PathSuggestSkills  = "/api/ai/suggest-skills"
	PathImproveProject = "/api/ai/improve-project"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Options configures the Gateway.
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// DefaultOptions returns the standard 30-second configuration.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout}
}

// Gateway issues exactly one request per improvement call. It keeps no state
// between calls, so calls for different fields may run concurrently.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// NewGateway creates a Gateway for the AI service at baseURL.
func NewGateway(baseURL string, opts *Options) *Gateway {
	if opts == nil {
		opts = DefaultOptions()
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// BaseURL returns the service base URL.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

type improveSummaryRequest struct {
	Summary string `json:"summary"`
}

type suggestSkillsRequest struct {
	Skills []string `json:"skills"`
}

type improveProjectRequest struct {
	ProjectDescription string `json:"project_description"`
}

// ImproveSummary returns replacement text for the summary. Empty input is still sent.
// A response without improved_summary falls back to summary.
func (g *Gateway) ImproveSummary(ctx context.Context, summary string) (string, error) {
	return g.improveText(ctx, "improve summary", PathImproveSummary,
		improveSummaryRequest{Summary: summary}, "improved_summary", summary)
}

// ImproveProject returns replacement text for one project description.
// A response without improved_project falls back to description.
func (g *Gateway) ImproveProject(ctx context.Context, description string) (string, error) {
	return g.improveText(ctx, "improve project", PathImproveProject,
		improveProjectRequest{ProjectDescription: description}, "improved_project", description)
}

// SuggestSkills returns suggested skills for the current list. The response may
// carry a list or a delimited string; both come back as the same ordered slice.
// A missing or malformed suggested_skills yields an empty slice.
func (g *Gateway) SuggestSkills(ctx context.Context, skills []string) ([]string, error) {
	if skills == nil {
		skills = []string{}
	}
	fields, err := g.post(ctx, "suggest skills", PathSuggestSkills, suggestSkillsRequest{Skills: skills})
	if err != nil {
		return nil, err
	}

	suggested, err := decodeSkills(fields["suggested_skills"])
	if err != nil {
		log.Printf("[assist] suggest skills: ignoring malformed suggested_skills: %v", err)
		return []string{}, nil
	}
	return suggested, nil
}

func (g *Gateway) improveText(ctx context.Context, op, path string, body any, key, fallback string) (string, error) {
	fields, err := g.post(ctx, op, path, body)
	if err != nil {
		return "", err
	}

	raw, ok := fields[key]
	if !ok {
		log.Printf("[assist] %s: response has no %s, keeping current text", op, key)
		return fallback, nil
	}
	var text *string
	if err := json.Unmarshal(raw, &text); err != nil || text == nil {
		log.Printf("[assist] %s: %s is not a string, keeping current text", op, key)
		return fallback, nil
	}
	return *text, nil
}

// post sends one JSON request and returns the top-level fields of a 2xx response.
// A 2xx body that is not a JSON object yields an empty field set.
func (g *Gateway) post(ctx context.Context, op, path string, body any) (map[string]json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &RequestFailedError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &RequestFailedError{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestFailedError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		log.Printf("[assist] %s: response is not a JSON object: %v", op, err)
		return map[string]json.RawMessage{}, nil
	}
	return fields, nil
}

// errorMessage pulls a readable message out of an error body.
func errorMessage(data []byte) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:197] + "..."
	}
	return msg
}
