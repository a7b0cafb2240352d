package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/newsverdict/internal/config"
	"github.com/nao1215/newsverdict/internal/model"
	"github.com/nao1215/newsverdict/internal/textmodel"
)

// TestNewClassifyCmd tests the classify command creation.
func TestNewClassifyCmd(t *testing.T) {
	t.Parallel()

	cmd := NewClassifyCmd()
	if cmd.Use != "classify [text]" {
		t.Errorf("expected use 'classify [text]', got %q", cmd.Use)
	}

	flags := map[string]string{
		"file": "f", "html": "", "url": "u", "timeout": "t",
		"json": "j", "markdown": "m", "output": "o",
	}
	for name, shorthand := range flags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("expected %s flag", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("expected shorthand %q for %s, got %q", shorthand, name, flag.Shorthand)
		}
	}
}

func TestRunClassifyCmd(t *testing.T) {
	t.Parallel()

	t.Run("classifies arguments", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "Markets", "rose", "today")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "The news is REAL") {
			t.Errorf("expected REAL verdict, got:\n%s", stdout)
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "--json", "Shocking aliens!")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.AnalysisResult
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if got.Label != model.LabelFake {
			t.Errorf("label = %v, want FAKE", got.Label)
		}
		if got.Fetch != nil {
			t.Error("direct text must carry no source attribution")
		}
	})

	t.Run("text file", func(t *testing.T) {
		t.Parallel()

		input := filepath.Join(t.TempDir(), "article.txt")
		if err := os.WriteFile(input, []byte("Markets rose today."), 0600); err != nil {
			t.Fatal(err)
		}
		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "--file", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "REAL") {
			t.Errorf("expected REAL verdict, got:\n%s", stdout)
		}
	})

	t.Run("html file ignores scripts", func(t *testing.T) {
		t.Parallel()

		page := `<html><head><title>Markets</title></head><body>
			<script>var shocking = "aliens aliens aliens";</script>
			<p>Shocking aliens!</p></body></html>`
		input := filepath.Join(t.TempDir(), "page.html")
		if err := os.WriteFile(input, []byte(page), 0600); err != nil {
			t.Fatal(err)
		}
		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "--file", input, "--html", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.AnalysisResult
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if strings.Contains(got.Input, "var shocking") {
			t.Errorf("script text leaked into input: %q", got.Input)
		}
		if got.Label != model.LabelFake {
			t.Errorf("label = %v, want FAKE", got.Label)
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		t.Parallel()

		output := filepath.Join(t.TempDir(), "reports", "verdict.md")
		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "--markdown", "-o", output, "Markets rose")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if !strings.Contains(string(content), "# newsverdict Report") {
			t.Errorf("unexpected report:\n%s", content)
		}
	})

	t.Run("blank text is a validation error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		_, _, err := runCommand(t, "classify", "--config", cfgPath, "   ")
		if !errors.Is(err, textmodel.ErrEmptyText) {
			t.Errorf("err = %v, want %v", err, textmodel.ErrEmptyText)
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		_, _, err := runCommand(t, "classify", "--config", cfgPath)
		if !errors.Is(err, errNoInput) {
			t.Errorf("err = %v, want %v", err, errNoInput)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		_, _, err := runCommand(t, "classify", "--config", cfgPath, "--json", "--markdown", "text")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("err = %v, want %v", err, config.ErrConflictingReportFormats)
		}
	})

	t.Run("missing artifacts fail before classifying", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfgPath := filepath.Join(dir, ".newsverdict")
		content := "artifacts:\n  dir: " + filepath.Join(dir, "empty") + "\n"
		if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		_, _, err := runCommand(t, "classify", "--config", cfgPath, "Markets rose")
		if !errors.Is(err, textmodel.ErrArtifactLoad) {
			t.Errorf("err = %v, want %v", err, textmodel.ErrArtifactLoad)
		}
	})
}

func TestClassifyURL(t *testing.T) {
	t.Parallel()

	article := `<!DOCTYPE html><html><head><title>Daily Planet</title></head><body>
		<nav><a href="/">Home</a> <a href="/world">World</a></nav>
		<article><h1>Aliens land downtown</h1>
		<p>Shocking aliens were seen near city hall on Monday according to several witnesses
		who spoke to reporters. Shocking aliens again appeared later that evening near the
		river, and officials declined to comment on the shocking aliens sightings.</p>
		<p>Residents described the shocking aliens as friendly and said they would welcome
		further visits from the aliens in coming weeks.</p>
		<p>The city council scheduled an emergency session for Tuesday morning, where members
		are expected to discuss how the shocking aliens arrived and whether the shocking aliens
		intend to stay. Local shops reported record sales of souvenirs, and schools announced
		special lessons about the shocking aliens for the rest of the week.</p></article>
		<footer>Copyright</footer></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/story" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, article)
	}))
	t.Cleanup(srv.Close)

	t.Run("extracts and classifies the article", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		stdout, _, err := runCommand(t, "classify", "--config", cfgPath, "--json", "--url", srv.URL+"/story")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.AnalysisResult
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Label != model.LabelFake {
			t.Errorf("label = %v, want FAKE", got.Label)
		}
		if !strings.Contains(got.Input, "city hall") {
			t.Errorf("expected article text in input, got %q", got.Input)
		}
	})

	t.Run("http error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeTestConfig(t, "")
		_, _, err := runCommand(t, "classify", "--config", cfgPath, "--url", srv.URL+"/missing")
		if err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}
