// Package handoff sends a finished draft to the templating stage for HTML
// preview or PDF generation.
package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/skillfolio/internal/types"
)

// DefaultTimeout is the default templating request timeout. PDF rendering is slow.
const DefaultTimeout = 60 * time.Second

// MaxResponseBytes caps a preview or PDF body.
const MaxResponseBytes = 32 << 20

// Endpoint paths on the templating service
const (
	PathPreview  = "/preview"
	PathGenerate = "/generate"
)

// Error represents a failed templating call.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("handoff %s failed", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Preview is a rendered HTML resume.
type Preview struct {
	HTML string
	Text string
}

// Document is a generated PDF resume.
type Document struct {
	Filename string
	Data     []byte
}

// Client talks to the templating service.
type Client struct {
	baseURL  string
	client   *http.Client
	maxBytes int64
}

// NewClient creates a templating client. A nil httpClient gets DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   httpClient,
		maxBytes: MaxResponseBytes,
	}
}

// NewRequest builds a validated handoff request. The draft shape is unchanged
// apart from filling absent sections.
func NewRequest(templateID int, d types.ResumeDraft) (*types.TemplateRequest, error) {
	d = d.Clone()
	d.Normalize()
	req := &types.TemplateRequest{TemplateID: templateID, Data: d}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid handoff request: %w", err)
	}
	return req, nil
}

// Preview renders the draft as HTML.
func (c *Client) Preview(ctx context.Context, req *types.TemplateRequest) (*Preview, error) {
	resp, body, err := c.post(ctx, "preview", PathPreview, req)
	if err != nil {
		return nil, err
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "text/html") {
		return nil, &Error{Op: "preview", StatusCode: resp.StatusCode, Message: "unexpected content type " + ct}
	}

	html := string(body)
	text, err := ExtractText(html)
	if err != nil {
		return nil, &Error{Op: "preview", Message: "failed to parse preview HTML", Cause: err}
	}
	return &Preview{HTML: html, Text: text}, nil
}

// Generate renders the draft as a PDF.
func (c *Client) Generate(ctx context.Context, req *types.TemplateRequest) (*Document, error) {
	resp, body, err := c.post(ctx, "generate", PathGenerate, req)
	if err != nil {
		return nil, err
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/pdf") {
		return nil, &Error{Op: "generate", StatusCode: resp.StatusCode, Message: "unexpected content type " + ct}
	}

	filename := FilenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = fmt.Sprintf("resume_%d.pdf", time.Now().Unix())
	}
	return &Document{Filename: filename, Data: body}, nil
}

func (c *Client) post(ctx context.Context, op, path string, req *types.TemplateRequest) (*http.Response, []byte, error) {
	if req == nil {
		return nil, nil, &Error{Op: op, Message: "request is nil"}
	}
	if err := req.Validate(); err != nil {
		return nil, nil, &Error{Op: op, Message: "invalid request", Cause: err}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, nil, &Error{Op: op, Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, nil, &Error{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("response exceeds %d bytes", c.maxBytes)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: detail(body)}
	}
	return resp, body, nil
}

// FilenameFromDisposition returns the filename parameter of a Content-Disposition header.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// detail extracts the error detail of a failed templating response.
func detail(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}
