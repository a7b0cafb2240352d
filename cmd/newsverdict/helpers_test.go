package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const (
	testVectorizerJSON = `{
		"vocabulary": {"markets": 0, "rose": 1, "today": 2, "aliens": 3, "shocking": 4},
		"idf": [1, 1, 1, 1, 1]
	}`
	testClassifierJSON = `{"coef": [[1, 1, 0.5, -2, -2]], "intercept": [0], "classes": [0, 1]}`
)

// writeArtifacts writes the test vectorizer and classifier into a temporary
// directory and returns their paths.
func writeArtifacts(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	vec := filepath.Join(dir, "vectorizer.json")
	clf := filepath.Join(dir, "classifier.json")
	if err := os.WriteFile(vec, []byte(testVectorizerJSON), 0600); err != nil {
		t.Fatalf("failed to write vectorizer: %v", err)
	}
	if err := os.WriteFile(clf, []byte(testClassifierJSON), 0600); err != nil {
		t.Fatalf("failed to write classifier: %v", err)
	}
	return vec, clf
}

// writeTestConfig writes a configuration file pointing at the test
// artifacts and, when endpoint is set, at a mock generative endpoint.
func writeTestConfig(t *testing.T, endpoint string) string {
	t.Helper()

	vec, clf := writeArtifacts(t)
	content := fmt.Sprintf("artifacts:\n  vectorizer: %s\n  classifier: %s\n", vec, clf)
	if endpoint != "" {
		content += fmt.Sprintf("generative:\n  endpoint: %s\n  timeout: 5s\n", endpoint)
	}

	path := filepath.Join(t.TempDir(), ".newsverdict")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// runCommand executes the root command with args and returns its stdout
// and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}
