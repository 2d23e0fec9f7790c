package handoff

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/skillfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const previewHTML = `<html><head><style>.skill-chip{color:red}</style></head>
<body>
  <h1>Ada Lovelace</h1>
  <p>ada@example.com</p>
  <ul><li>MIT - BSc (2024)</li><li>CMU - MSc (2026)</li></ul>
  <span class='skill-chip'>Go</span><span class='skill-chip'>Rust</span>
  <script>console.log("x")</script>
</body></html>`

func sampleDraft() types.ResumeDraft {
	d := types.NewResumeDraft()
	d.Personal.FullName = "Ada Lovelace"
	d.Skills = []string{"Go", "Rust"}
	return d
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(2, types.ResumeDraft{Summary: "hi"})
	require.NoError(t, err)

	assert.Equal(t, 2, req.TemplateID)
	assert.Len(t, req.Data.Education, 1)
	assert.Equal(t, "hi", req.Data.Summary)

	_, err = NewRequest(0, sampleDraft())
	assert.Error(t, err)
}

func TestPreview_Success(t *testing.T) {
	var got types.TemplateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathPreview, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(previewHTML))
	}))
	defer server.Close()

	req, err := NewRequest(1, sampleDraft())
	require.NoError(t, err)

	preview, err := NewClient(server.URL, nil).Preview(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, got.TemplateID)
	assert.Equal(t, "Ada Lovelace", got.Data.Personal.FullName)
	assert.Equal(t, []string{"Go", "Rust"}, got.Data.Skills)
	assert.Contains(t, preview.HTML, "<h1>Ada Lovelace</h1>")
	assert.Contains(t, preview.Text, "Ada Lovelace\n")
	assert.Contains(t, preview.Text, "MIT - BSc (2024)\nCMU - MSc (2026)")
	assert.NotContains(t, preview.Text, "console.log")
	assert.NotContains(t, preview.Text, "color:red")
}

func TestPreview_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"template4.html not found"}`))
	}))
	defer server.Close()

	req, err := NewRequest(3, sampleDraft())
	require.NoError(t, err)

	_, err = NewClient(server.URL, nil).Preview(context.Background(), req)
	require.Error(t, err)

	var handoffErr *Error
	require.ErrorAs(t, err, &handoffErr)
	assert.Equal(t, http.StatusInternalServerError, handoffErr.StatusCode)
	assert.Contains(t, err.Error(), "template4.html not found")
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathGenerate, r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="resume_1700000000.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	req, err := NewRequest(1, sampleDraft())
	require.NoError(t, err)

	doc, err := NewClient(server.URL+"/", nil).Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "resume_1700000000.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.7 fake"), doc.Data)
}

func TestGenerate_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	req, err := NewRequest(1, sampleDraft())
	require.NoError(t, err)

	c := NewClient(server.URL, nil)
	c.maxBytes = 32
	_, err = c.Generate(context.Background(), req)

	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Contains(t, herr.Message, "response exceeds 32 bytes")

	c.maxBytes = 64
	doc, err := c.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, doc.Data, 64)
}

func TestGenerate_WrongContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	req, err := NewRequest(1, sampleDraft())
	require.NoError(t, err)

	_, err = NewClient(server.URL, nil).Generate(context.Background(), req)
	assert.ErrorContains(t, err, "unexpected content type")
}

func TestClient_RejectsInvalidRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Preview(context.Background(), &types.TemplateRequest{TemplateID: 9})
	assert.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestFilenameFromDisposition(t *testing.T) {
	assert.Equal(t, "a.pdf", FilenameFromDisposition(`attachment; filename="a.pdf"`))
	assert.Equal(t, "", FilenameFromDisposition("attachment"))
	assert.Equal(t, "", FilenameFromDisposition(""))
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText(`<body><div>Line   one</div><div>Line<br>two</div></body>`)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine\ntwo", text)
}
