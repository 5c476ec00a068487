package policy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const titleRego = `# Every card needs a title.
# severity: error
package house.title

import rego.v1

deny contains "missing title" if {
	not input.resolved.title
}`

func writePolicy(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoadFromFile_Rego(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	path := writePolicy(t, t.TempDir(), "require-title.rego", titleRego)

	policy, err := loader.loadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load policy: %v", err)
	}

	if policy.Name != "require-title" {
		t.Errorf("Expected name 'require-title', got '%s'", policy.Name)
	}
	if policy.Description != "Every card needs a title." {
		t.Errorf("Unexpected description '%s'", policy.Description)
	}
	if policy.Severity != SeverityError {
		t.Errorf("Expected severity error, got %s", policy.Severity)
	}
	if !policy.Enabled || policy.Builtin || policy.Source != path {
		t.Errorf("Unexpected policy flags: %+v", policy)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	policy := Policy{
		Name:        "json-policy",
		Description: "A test policy",
		Rego:        "package test\n\nimport rego.v1\n\ndeny contains \"x\" if { false }",
		Severity:    SeverityInfo,
		Tags:        []string{"test"},
	}
	data, err := json.Marshal(policy)
	if err != nil {
		t.Fatalf("Failed to marshal policy: %v", err)
	}
	path := writePolicy(t, t.TempDir(), "test.json", string(data))

	loaded, err := loader.loadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load policy: %v", err)
	}

	if loaded.Name != policy.Name || loaded.Description != policy.Description {
		t.Errorf("Unexpected policy: %+v", loaded)
	}
	if loaded.Severity != SeverityInfo {
		t.Errorf("Expected severity info, got %s", loaded.Severity)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "unsupported type", file: "test.txt", content: "not a policy"},
		{name: "invalid json", file: "bad.json", content: "invalid json"},
		{name: "json without rego", file: "empty.json", content: `{"name": "empty"}`},
		{name: "json bad severity", file: "sev.json", content: `{"rego": "package x", "severity": "critical"}`},
		{name: "rego bad severity", file: "sev.rego", content: "# severity: fatal\npackage x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(zerolog.Nop())
			path := writePolicy(t, dir, tt.file, tt.content)
			if _, err := loader.loadFromFile(path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadFromDirectory_Recursive(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	dir := t.TempDir()

	writePolicy(t, dir, "a.rego", "package a")
	writePolicy(t, dir, "nested/b.rego", "package b")
	writePolicy(t, dir, "nested/deeper/c.json", `{"name": "c", "rego": "package c"}`)
	writePolicy(t, dir, "README.md", "ignored")
	writePolicy(t, dir, "broken.json", "{")

	policies, err := loader.LoadFromPaths(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Failed to load directory: %v", err)
	}
	if len(policies) != 3 {
		t.Errorf("Expected 3 policies, got %d", len(policies))
	}
}

func TestLoadFromPaths_NonExistent(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	_, err := loader.LoadFromPaths(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Error("Expected error for non-existent path")
	}
}

func TestExtractHeader(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	tests := []struct {
		name         string
		content      string
		wantDesc     string
		wantSeverity Severity
	}{
		{
			name:     "single line comment",
			content:  "# Checks titles\npackage test",
			wantDesc: "Checks titles",
		},
		{
			name:     "multi line comments",
			content:  "# Checks titles\n# on every card\npackage test",
			wantDesc: "Checks titles on every card",
		},
		{
			name:         "severity line",
			content:      "# Checks titles\n# severity: info\npackage test",
			wantDesc:     "Checks titles",
			wantSeverity: SeverityInfo,
		},
		{
			name:    "no comments",
			content: "package test\n# trailing",
		},
		{
			name:     "comments with empty lines",
			content:  "# First line\n#\n# Second line\n\npackage test",
			wantDesc: "First line Second line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, sev := loader.extractHeader(tt.content)
			if desc != tt.wantDesc {
				t.Errorf("Expected description '%s', got '%s'", tt.wantDesc, desc)
			}
			if sev != tt.wantSeverity {
				t.Errorf("Expected severity '%s', got '%s'", tt.wantSeverity, sev)
			}
		})
	}
}

func TestClearCache(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	path := writePolicy(t, t.TempDir(), "test.rego", "package test")

	if _, err := loader.loadFromFile(path); err != nil {
		t.Fatalf("Failed to load policy: %v", err)
	}
	if len(loader.cache) != 1 {
		t.Errorf("Expected 1 cache entry, got %d", len(loader.cache))
	}

	loader.ClearCache()
	if len(loader.cache) != 0 {
		t.Errorf("Expected 0 cache entries after clear, got %d", len(loader.cache))
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	dir := t.TempDir()
	writePolicy(t, dir, "a.rego", "package a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan int, 4)
	done := make(chan error, 1)
	go func() {
		done <- loader.Watch(ctx, []string{dir}, func(policies []Policy) error {
			reloaded <- len(policies)
			return nil
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writePolicy(t, dir, "b.rego", "package b")

	select {
	case n := <-reloaded:
		if n != 2 {
			t.Errorf("Expected 2 policies after reload, got %d", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}
