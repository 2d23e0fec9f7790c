package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillfolio/internal/config"
	"github.com/jonathan/skillfolio/internal/types"
)

// runCLI executes the root command in-process and returns its stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolateEnv points every service URL at base and clears values a local .env may set.
func isolateEnv(t *testing.T, base string) {
	t.Helper()
	t.Setenv(config.EnvAPIBase, base)
	t.Setenv(config.EnvTemplateBase, base)
	t.Setenv(config.EnvPolicy, "")
	t.Setenv(config.EnvTemplateID, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvTimeout, "")
}

func writeDraftFile(t *testing.T, d types.ResumeDraft) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, writeDraft(path, d))
	return path
}

func sampleDraft() types.ResumeDraft {
	d := types.NewResumeDraft()
	d.Personal = types.Personal{FullName: "Ada Lovelace", Email: "ada@example.com"}
	d.Skills = []string{"Go", "SQL"}
	d.Summary = "Mathematician"
	return d
}

// fakeServices answers both the AI endpoints and the templating endpoints.
func fakeServices(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ai/improve-summary", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"improved_summary": "Polished: " + body["summary"]})
	})
	mux.HandleFunc("/api/ai/improve-project", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"improved_project": "Shipped a CLI"})
	})
	mux.HandleFunc("/api/ai/suggest-skills", func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if len(body["skills"]) == 0 {
			_ = json.NewEncoder(w).Encode(map[string][]string{"suggested_skills": {}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"suggested_skills": {"Docker", "Kubernetes"}})
	})
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		var req types.TemplateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<html><body><h1>"+req.Data.Personal.FullName+"</h1><p>Template</p></body></html>")
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="../resume_ada.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRootCommand_ListsSubcommands(t *testing.T) {
	out, err := runCLI(t, "", "--help")
	require.NoError(t, err)

	for _, name := range []string{"session", "improve-summary", "suggest-skills", "improve-project", "preview", "generate", "validate", "serve-ai"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_BadConfigFile(t *testing.T) {
	isolateEnv(t, "http://localhost:1")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"policy": "always"}`), 0644))

	_, err := runCLI(t, "", "--config", path, "validate", "--draft", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy")
}

func TestImproveSummaryCommand(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)

	out, err := runCLI(t, "", "improve-summary", "I", "write", "code")
	require.NoError(t, err)
	assert.Equal(t, "Polished: I write code\n", out)

	out, err = runCLI(t, "  from stdin \n", "improve-summary")
	require.NoError(t, err)
	assert.Equal(t, "Polished: from stdin\n", out)
}

func TestImproveProjectCommand(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)

	out, err := runCLI(t, "", "improve-project", "made a tool")
	require.NoError(t, err)
	assert.Equal(t, "Shipped a CLI\n", out)
}

func TestSuggestSkillsCommand(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)

	out, err := runCLI(t, "", "suggest-skills", "Go, SQL")
	require.NoError(t, err)
	assert.Equal(t, "Docker\nKubernetes\n", out)

	out, err = runCLI(t, "", "suggest-skills")
	require.NoError(t, err)
	assert.Equal(t, "No skills suggested\n", out)
}

func TestImproveSummaryCommand_ServiceDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error": "model offline"}`)
	}))
	defer ts.Close()
	isolateEnv(t, ts.URL)

	_, err := runCLI(t, "", "improve-summary", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestValidateCommand(t *testing.T) {
	isolateEnv(t, "http://localhost:1")

	t.Run("valid draft", func(t *testing.T) {
		path := writeDraftFile(t, sampleDraft())
		out, err := runCLI(t, "", "validate", "--draft", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Validation passed")
	})

	t.Run("invalid draft", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"personal": {}}`), 0644))

		out, err := runCLI(t, "", "validate", "--draft", path)
		require.Error(t, err)
		assert.Contains(t, out, "Validation failed:")
		assert.Contains(t, err.Error(), "schema error")
	})

	t.Run("missing flag", func(t *testing.T) {
		_, err := runCLI(t, "", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "draft")
	})
}

func TestPreviewCommand(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)
	path := writeDraftFile(t, sampleDraft())
	htmlPath := filepath.Join(t.TempDir(), "out", "preview.html")

	out, err := runCLI(t, "", "preview", "--draft", path, "--template", "2", "--html", htmlPath)
	require.NoError(t, err)

	assert.Contains(t, out, "PREVIEW (TEMPLATE 2)")
	assert.Contains(t, out, "Ada Lovelace")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Ada Lovelace</h1>")
}

func TestPreviewCommand_BadTemplate(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)
	path := writeDraftFile(t, sampleDraft())

	_, err := runCLI(t, "", "preview", "--draft", path, "--template", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid handoff request")
}

func TestGenerateCommand(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)
	path := writeDraftFile(t, sampleDraft())
	outDir := t.TempDir()

	out, err := runCLI(t, "", "generate", "--draft", path, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully generated resume")

	data, err := os.ReadFile(filepath.Join(outDir, "resume_ada.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestSessionCommand_EditAndSave(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)
	savePath := filepath.Join(t.TempDir(), "saved", "draft.json")

	input := strings.Join([]string{
		"set personal.fullName Ada Lovelace",
		"add-skill Go",
		"summary I like math",
		"improve summary",
		"quit",
	}, "\n") + "\n"

	out, err := runCLI(t, input, "session", "--policy", "auto-apply", "--no-handoff", "--save", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Draft saved to "+savePath)

	d, err := readDraft(savePath)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", d.Personal.FullName)
	assert.Equal(t, []string{"Go"}, d.Skills)
	assert.Equal(t, "Polished: I like math", d.Summary)
}

func TestSessionCommand_StartsFromDraft(t *testing.T) {
	ts := fakeServices(t)
	isolateEnv(t, ts.URL)
	path := writeDraftFile(t, sampleDraft())
	savePath := filepath.Join(t.TempDir(), "out.json")

	_, err := runCLI(t, "remove-skill 0\nquit\n", "session", "--draft", path, "--no-handoff", "--save", savePath)
	require.NoError(t, err)

	d, err := readDraft(savePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL"}, d.Skills)
	assert.Equal(t, "Ada Lovelace", d.Personal.FullName)
}

func TestSessionCommand_DraftFlagsMarkedDevOnly(t *testing.T) {
	out, err := runCLI(t, "", "session", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "not a storage layer")
	assert.Contains(t, out, "Dev convenience: seed the session")
	assert.Contains(t, out, "Dev convenience: write the final draft")
}

func TestSessionCommand_UnknownPolicy(t *testing.T) {
	isolateEnv(t, "http://localhost:1")

	_, err := runCLI(t, "", "session", "--policy", "sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI policy")
}

func TestServeAICommand_RequiresKey(t *testing.T) {
	isolateEnv(t, "http://localhost:1")
	t.Setenv(config.EnvGeminiAPIKey, "")

	_, err := runCLI(t, "", "serve-ai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestServeAICommand_UnknownTier(t *testing.T) {
	isolateEnv(t, "http://localhost:1")

	_, err := runCLI(t, "", "serve-ai", "--api-key", "k", "--tier", "huge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model tier")
}

func TestWriteDraft_RoundTrip(t *testing.T) {
	path := writeDraftFile(t, sampleDraft())

	d, err := readDraft(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDraft(), d)

	_, err = readDraft(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read draft file")
}
