package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/bizplan/internal/server"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--project", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInitSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "init", "--backend", "sqlite")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "storage: sqlite") {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".bizplan", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "backend: sqlite") {
		t.Fatalf("config not updated:\n%s", data)
	}
}

func TestExportWithoutDraft(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	out, err := execute(t, dir, "export", "--out", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Base(path) != "business-plan-unnamed.html" {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "N/A") {
		t.Fatalf("empty report should show placeholders")
	}
}

func TestSummarizeRequiresDraftFields(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REACT_APP_OPENAI_API_KEY", "")
	_, err := execute(t, t.TempDir(), "summarize")
	if err == nil || !strings.Contains(err.Error(), "Name is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusAndTokensOnFreshProject(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Draft:     none") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
	out, err = execute(t, dir, "tokens")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, "No summary requests recorded.") {
		t.Fatalf("unexpected tokens output %q", out)
	}
}

func TestServeDryRunKeepsDraftInMemory(t *testing.T) {
	dir := t.TempDir()
	p, err := openProject(&dir)
	if err != nil {
		t.Fatalf("open project: %v", err)
	}
	defer p.Close()

	settings := server.Settings{MaxBodyBytes: server.DefaultMaxBodyBytes}
	for _, dryRun := range []bool{true, false} {
		srv := httptest.NewServer(newServer(p, settings, dryRun, nil).Handler())
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/draft", strings.NewReader(`{"name":"Dana"}`))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("put draft: %v", err)
		}
		resp.Body.Close()
		srv.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("dryRun=%v status = %d", dryRun, resp.StatusCode)
		}
		if got := p.store.Exists(); got == dryRun {
			t.Fatalf("dryRun=%v: saved draft exists = %v", dryRun, got)
		}
	}
}
